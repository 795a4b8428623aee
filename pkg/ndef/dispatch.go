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
	"github.com/rs/zerolog/log"
)

// DecodeAll decodes every record it can, in input order. Each record is
// offered to the URI, Text and Smart Poster decoders in turn and every
// decoder that accepts it contributes a result, so one raw record may
// produce zero, one or several decoded records. Records no decoder accepts
// are dropped.
func DecodeAll(records []RawRecord) []DecodedRecord {
	return decodeAll(records, true)
}

// decodeAll is DecodeAll with optional logging of dropped records. Nested
// Smart Poster records pass false since action and type records are
// expected to match no decoder.
func decodeAll(records []RawRecord, logDrops bool) []DecodedRecord {
	out := make([]DecodedRecord, 0, len(records))
	for i, rec := range records {
		matched := false

		if uri, err := DecodeURI(rec); err == nil {
			out = append(out, uri)
			matched = true
		}
		if text, err := DecodeText(rec); err == nil {
			out = append(out, text)
			matched = true
		}
		if sp, err := DecodeSmartPoster(rec); err == nil {
			out = append(out, sp)
			matched = true
		}

		if !matched && logDrops {
			log.Debug().
				Int("index", i).
				Str("tnf", rec.TNF.String()).
				Bytes("type", rec.Type).
				Msg("skipping unrecognized NDEF record")
		}
	}
	return out
}

// DecodeMessages runs DecodeAll over each message independently.
func DecodeMessages(messages [][]RawRecord) [][]DecodedRecord {
	out := make([][]DecodedRecord, len(messages))
	for i, msg := range messages {
		out[i] = DecodeAll(msg)
	}
	return out
}
