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
	"encoding/binary"
	"fmt"
)

// TLV block types in Type 2 tag memory.
const (
	tlvNull          = 0x00
	tlvLockControl   = 0x01
	tlvMemoryControl = 0x02
	tlvNDEF          = 0x03
	tlvTerminator    = 0xFE
	tlvLongLength    = 0xFF
)

// ExtractMessage finds the NDEF message TLV in tag memory and returns the
// message bytes it wraps. NULL padding, lock and memory control TLVs and
// proprietary TLVs before it are skipped.
func ExtractMessage(data []byte) ([]byte, error) {
	offset := 0
	for offset < len(data) {
		switch data[offset] {
		case tlvNull:
			offset++
			continue
		case tlvTerminator:
			return nil, ErrNoNDEF
		}

		length, header, err := readTLVLength(data, offset)
		if err != nil {
			return nil, err
		}

		start := offset + header
		if start+length > len(data) {
			return nil, fmt.Errorf("%w: TLV at offset %d needs %d bytes, have %d",
				ErrInvalidNDEF, offset, length, len(data)-start)
		}

		if data[offset] == tlvNDEF {
			return data[start : start+length], nil
		}

		offset = start + length
	}
	return nil, ErrNoNDEF
}

// readTLVLength reads the length field of the TLV at offset and returns the
// value length and the size of the type and length fields.
func readTLVLength(data []byte, offset int) (length, header int, err error) {
	if offset+1 >= len(data) {
		return 0, 0, fmt.Errorf("%w: missing TLV length at offset %d", ErrInvalidNDEF, offset)
	}

	// short format
	if data[offset+1] != tlvLongLength {
		return int(data[offset+1]), 2, nil
	}

	// long format, NFCForum-TS-Type-2-Tag_1.1 section 2.3
	if offset+4 > len(data) {
		return 0, 0, fmt.Errorf("%w: truncated long TLV length at offset %d", ErrInvalidNDEF, offset)
	}
	return int(binary.BigEndian.Uint16(data[offset+2 : offset+4])), 4, nil
}

// DecodeTag decodes the NDEF message stored in Type 2 tag memory.
func DecodeTag(data []byte) ([]DecodedRecord, error) {
	msg, err := ExtractMessage(data)
	if err != nil {
		return nil, err
	}
	if len(msg) == 0 {
		return nil, ErrNoNDEF
	}

	records, err := ParseMessage(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNDEF, err)
	}

	return DecodeAll(records), nil
}
