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
	"fmt"
	"unicode/utf8"
)

// DecodeURI decodes a well-known URI record or an absolute-URI record.
func DecodeURI(rec RawRecord) (URIRecord, error) {
	switch rec.TNF {
	case TNFWellKnown:
		return decodeWellKnownURI(rec)
	case TNFAbsoluteURI:
		if !utf8.Valid(rec.Payload) {
			return URIRecord{}, fmt.Errorf("absolute URI: %w", ErrEncoding)
		}
		return URIRecord{URI: string(rec.Payload)}, nil
	default:
		return URIRecord{}, fmt.Errorf("%w: %s is not a URI record", ErrWrongTNF, rec.TNF)
	}
}

// IsURI reports whether DecodeURI accepts the record.
func IsURI(rec RawRecord) bool {
	_, err := DecodeURI(rec)
	return err == nil
}

func decodeWellKnownURI(rec RawRecord) (URIRecord, error) {
	if !rec.IsType(TypeURI) {
		return URIRecord{}, fmt.Errorf("%w: %q is not a URI record", ErrWrongType, rec.Type)
	}
	if len(rec.Payload) < 1 {
		return URIRecord{}, fmt.Errorf("URI payload missing identifier code: %w", ErrTruncated)
	}

	// reserved codes decode with no prefix
	prefix, _ := LookupURIPrefix(rec.Payload[0])

	tail := rec.Payload[1:]
	if !utf8.Valid(tail) {
		return URIRecord{}, fmt.Errorf("URI tail: %w", ErrEncoding)
	}

	return URIRecord{URI: prefix + string(tail)}, nil
}
