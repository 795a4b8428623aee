// Zaparoo NDEF
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo NDEF.
//
// Zaparoo NDEF is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo NDEF is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo NDEF.  If not, see <http://www.gnu.org/licenses/>.

package ndef

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Text record status byte layout.
const (
	textUTF16Flag    = 0x80
	textLangCodeMask = 0x3F
)

// DecodeText decodes a well-known Text record. Chunked text spread across
// several records is not reassembled.
func DecodeText(rec RawRecord) (TextRecord, error) {
	if rec.TNF != TNFWellKnown {
		return TextRecord{}, fmt.Errorf("%w: %s is not a text record", ErrWrongTNF, rec.TNF)
	}
	if !rec.IsType(TypeText) {
		return TextRecord{}, fmt.Errorf("%w: %q is not a text record", ErrWrongType, rec.Type)
	}

	payload := rec.Payload
	if len(payload) < 1 {
		return TextRecord{}, fmt.Errorf("text payload missing status byte: %w", ErrTruncated)
	}

	status := payload[0]
	langLen := int(status & textLangCodeMask)
	if len(payload) < 1+langLen {
		return TextRecord{}, fmt.Errorf(
			"language code needs %d bytes, have %d: %w: %w",
			langLen, len(payload)-1, ErrTruncated, ErrEncoding,
		)
	}

	lang := payload[1 : 1+langLen]
	if !isASCII(lang) {
		return TextRecord{}, fmt.Errorf("language code is not ASCII: %w", ErrEncoding)
	}

	body := payload[1+langLen:]
	result := TextRecord{
		LanguageCode: string(lang),
		Encoding:     EncodingUTF8,
	}

	if status&textUTF16Flag != 0 {
		text, err := decodeUTF16(body)
		if err != nil {
			return TextRecord{}, err
		}
		result.Text = text
		result.Encoding = EncodingUTF16
		return result, nil
	}

	if !utf8.Valid(body) {
		return TextRecord{}, fmt.Errorf("UTF-8 text: %w", ErrEncoding)
	}
	result.Text = string(body)
	return result, nil
}

// IsText reports whether DecodeText accepts the record.
func IsText(rec RawRecord) bool {
	_, err := DecodeText(rec)
	return err == nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

var bomLittleEndian = []byte{0xFF, 0xFE}

// decodeUTF16 decodes UTF-16 text. A leading byte order mark selects the
// endianness, big-endian otherwise. Odd lengths and unpaired surrogates
// are rejected rather than replaced.
func decodeUTF16(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", fmt.Errorf("UTF-16 text has odd length %d: %w", len(b), ErrEncoding)
	}

	order := binary.ByteOrder(binary.BigEndian)
	if bytes.HasPrefix(b, bomLittleEndian) {
		order = binary.LittleEndian
	}
	if !validUTF16(b, order) {
		return "", fmt.Errorf("UTF-16 text has unpaired surrogate: %w", ErrEncoding)
	}

	dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	out, err := dec.Bytes(b)
	if err != nil {
		return "", fmt.Errorf("UTF-16 text: %w: %w", ErrEncoding, err)
	}
	return string(out), nil
}

func validUTF16(b []byte, order binary.ByteOrder) bool {
	for i := 0; i < len(b); i += 2 {
		u := rune(order.Uint16(b[i:]))
		switch {
		case utf16.IsSurrogate(u) && u < 0xDC00:
			if i+2 >= len(b) {
				return false
			}
			next := rune(order.Uint16(b[i+2:]))
			if next < 0xDC00 || next > 0xDFFF {
				return false
			}
			i += 2
		case utf16.IsSurrogate(u):
			return false
		}
	}
	return true
}
