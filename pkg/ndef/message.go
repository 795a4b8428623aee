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

// NDEF record header flags.
const (
	flagMB  byte = 0x80
	flagME  byte = 0x40
	flagCF  byte = 0x20
	flagSR  byte = 0x10
	flagIL  byte = 0x08
	tnfMask byte = 0x07
)

// ParseMessage splits a complete NDEF message into its records. The first
// record must set MB, the last must set ME, and no bytes may follow it.
// Chunked records are not supported.
func ParseMessage(data []byte) ([]RawRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty message: %w", ErrTruncated)
	}

	var records []RawRecord
	offset := 0
	for {
		rec, flags, n, err := parseRecord(data[offset:])
		if err != nil {
			return nil, fmt.Errorf("record %d at offset %d: %w", len(records), offset, err)
		}

		first := len(records) == 0
		if first && flags&flagMB == 0 {
			return nil, fmt.Errorf("%w: MB flag not set on first record", ErrInvalidHeader)
		}
		if !first && flags&flagMB != 0 {
			return nil, fmt.Errorf("%w: MB flag set on record %d", ErrInvalidHeader, len(records))
		}

		records = append(records, rec)
		offset += n

		if flags&flagME != 0 {
			break
		}
		if offset >= len(data) {
			return nil, fmt.Errorf("message ended without ME flag: %w", ErrTruncated)
		}
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d bytes after ME record", ErrInvalidHeader, len(data)-offset)
	}

	return records, nil
}

// parseRecord reads one record from the start of data and returns it with
// its header flags and the number of bytes consumed.
func parseRecord(data []byte) (RawRecord, byte, int, error) {
	if len(data) < 3 {
		return RawRecord{}, 0, 0, fmt.Errorf("record too short: %w", ErrTruncated)
	}

	flags := data[0]
	tnf := TNF(flags & tnfMask)

	if flags&flagCF != 0 {
		return RawRecord{}, 0, 0, fmt.Errorf("%w: chunked records not supported", ErrInvalidHeader)
	}
	switch tnf {
	case TNFReserved:
		return RawRecord{}, 0, 0, fmt.Errorf("%w: invalid TNF value %d", ErrInvalidHeader, tnf)
	case TNFUnchanged:
		return RawRecord{}, 0, 0, fmt.Errorf("%w: unchanged TNF outside a chunk", ErrInvalidHeader)
	}

	typeLen := int(data[1])
	offset := 2

	var payloadLen int
	if flags&flagSR != 0 {
		payloadLen = int(data[offset])
		offset++
	} else {
		if offset+4 > len(data) {
			return RawRecord{}, 0, 0, fmt.Errorf("truncated payload length: %w", ErrTruncated)
		}
		payloadLen = int(binary.BigEndian.Uint32(data[offset : offset+4]))
		offset += 4
	}

	idLen := 0
	if flags&flagIL != 0 {
		if offset >= len(data) {
			return RawRecord{}, 0, 0, fmt.Errorf("truncated ID length: %w", ErrTruncated)
		}
		idLen = int(data[offset])
		offset++
	}

	switch {
	case tnf == TNFEmpty && (typeLen != 0 || idLen != 0 || payloadLen != 0):
		return RawRecord{}, 0, 0, fmt.Errorf("%w: empty record must have zero lengths", ErrInvalidHeader)
	case tnf == TNFWellKnown && typeLen == 0:
		return RawRecord{}, 0, 0, fmt.Errorf("%w: well-known record must have type", ErrInvalidHeader)
	}

	if typeLen+idLen > len(data)-offset {
		return RawRecord{}, 0, 0, fmt.Errorf("truncated record header: %w", ErrTruncated)
	}
	if payloadLen < 0 || payloadLen > len(data)-offset-typeLen-idLen {
		return RawRecord{}, 0, 0, fmt.Errorf(
			"payload needs %d bytes, have %d: %w",
			payloadLen, len(data)-offset-typeLen-idLen, ErrTruncated,
		)
	}

	rec := RawRecord{TNF: tnf}
	rec.Type = clone(data[offset : offset+typeLen])
	offset += typeLen
	rec.ID = clone(data[offset : offset+idLen])
	offset += idLen
	rec.Payload = clone(data[offset : offset+payloadLen])
	offset += payloadLen

	return rec, flags, offset, nil
}

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
