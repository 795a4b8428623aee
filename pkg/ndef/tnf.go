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

// Package ndef decodes NFC Forum NDEF records into typed URI, Text and
// Smart Poster values.
package ndef

import (
	"bytes"

	gondef "github.com/hsanjuan/go-ndef"
)

// TNF is the 3-bit Type Name Format field of an NDEF record header.
type TNF uint8

const (
	TNFEmpty       = TNF(gondef.Empty)
	TNFWellKnown   = TNF(gondef.NFCForumWellKnownType)
	TNFMedia       = TNF(gondef.MediaType)
	TNFAbsoluteURI = TNF(gondef.AbsoluteURI)
	TNFExternal    = TNF(gondef.NFCForumExternalType)
	TNFUnknown     = TNF(gondef.Unknown)
	TNFUnchanged   = TNF(gondef.Unchanged)
	TNFReserved    = TNF(gondef.Reserved)
)

func (t TNF) String() string {
	switch t {
	case TNFEmpty:
		return "empty"
	case TNFWellKnown:
		return "well-known"
	case TNFMedia:
		return "media"
	case TNFAbsoluteURI:
		return "absolute-uri"
	case TNFExternal:
		return "external"
	case TNFUnknown:
		return "unknown"
	case TNFUnchanged:
		return "unchanged"
	default:
		return "reserved"
	}
}

// Well-known record types used by the decoders.
var (
	TypeURI         = []byte("U")
	TypeText        = []byte("T")
	TypeSmartPoster = []byte("Sp")
	TypeAction      = []byte("act")
	TypeMIME        = []byte("t")
)

// RawRecord is a single undecoded NDEF record. Decoders never modify it.
type RawRecord struct {
	Type    []byte
	ID      []byte
	Payload []byte
	TNF     TNF
}

// IsType reports whether the record's type field equals typ.
func (r RawRecord) IsType(typ []byte) bool {
	return bytes.Equal(r.Type, typ)
}

// NewWellKnownRecord builds a well-known RawRecord from a type string and payload.
func NewWellKnownRecord(typ string, payload []byte) RawRecord {
	return RawRecord{
		TNF:     TNFWellKnown,
		Type:    []byte(typ),
		Payload: payload,
	}
}
