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
	"testing"

	gondef "github.com/hsanjuan/go-ndef"
	"github.com/stretchr/testify/require"
)

// encodeMessage frames records as an NDEF message with MB on the first and
// ME on the last record. Payloads over 255 bytes use the long form.
func encodeMessage(records ...RawRecord) []byte {
	var out []byte
	for i, rec := range records {
		flags := byte(rec.TNF) & tnfMask
		if i == 0 {
			flags |= flagMB
		}
		if i == len(records)-1 {
			flags |= flagME
		}
		short := len(rec.Payload) <= 0xFF
		if short {
			flags |= flagSR
		}
		if len(rec.ID) > 0 {
			flags |= flagIL
		}

		out = append(out, flags, byte(len(rec.Type)))
		if short {
			out = append(out, byte(len(rec.Payload)))
		} else {
			out = binary.BigEndian.AppendUint32(out, uint32(len(rec.Payload)))
		}
		if len(rec.ID) > 0 {
			out = append(out, byte(len(rec.ID)))
		}
		out = append(out, rec.Type...)
		out = append(out, rec.ID...)
		out = append(out, rec.Payload...)
	}
	return out
}

// smartPoster wraps records in a Smart Poster record.
func smartPoster(records ...RawRecord) RawRecord {
	return NewWellKnownRecord("Sp", encodeMessage(records...))
}

func uriRecord(code byte, tail string) RawRecord {
	return NewWellKnownRecord("U", append([]byte{code}, tail...))
}

func textRecord(lang, text string) RawRecord {
	payload := append([]byte{byte(len(lang))}, lang...)
	return NewWellKnownRecord("T", append(payload, text...))
}

// marshalGoNDEF encodes go-ndef records as a message so fixtures come from
// an independent encoder.
func marshalGoNDEF(t *testing.T, records ...*gondef.Record) []byte {
	t.Helper()
	for i, r := range records {
		r.SetMB(i == 0)
		r.SetME(i == len(records)-1)
	}
	msg := &gondef.Message{Records: records}
	data, err := msg.Marshal()
	require.NoError(t, err)
	return data
}
