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

// DecodeSmartPoster decodes a well-known Smart Poster record. The payload is
// a nested NDEF message holding the URI, optional title, action and MIME
// type records.
func DecodeSmartPoster(rec RawRecord) (SmartPosterRecord, error) {
	if rec.TNF != TNFWellKnown {
		return SmartPosterRecord{}, fmt.Errorf("%w: %s is not a smart poster", ErrWrongTNF, rec.TNF)
	}
	if !rec.IsType(TypeSmartPoster) {
		return SmartPosterRecord{}, fmt.Errorf("%w: %q is not a smart poster", ErrWrongType, rec.Type)
	}

	nested, err := ParseMessage(rec.Payload)
	if err != nil {
		return SmartPosterRecord{}, fmt.Errorf("%w: %w", ErrMalformedNestedMessage, err)
	}

	return smartPosterFromRecords(nested)
}

// IsSmartPoster reports whether DecodeSmartPoster accepts the record.
func IsSmartPoster(rec RawRecord) bool {
	_, err := DecodeSmartPoster(rec)
	return err == nil
}

func smartPosterFromRecords(nested []RawRecord) (SmartPosterRecord, error) {
	var (
		uri      *URIRecord
		title    *TextRecord
		mimeType *string
	)

	for _, d := range decodeAll(nested, false) {
		switch r := d.(type) {
		case URIRecord:
			// last one wins
			uri = &r
		case TextRecord:
			if title == nil {
				title = &r
			}
		}
	}

	if uri == nil {
		return SmartPosterRecord{}, ErrMissingRequiredURI
	}

	action := ActionUnknown
	if act, ok := firstOfType(nested, TypeAction); ok && len(act.Payload) > 0 {
		action = ParseRecommendedAction(act.Payload[0])
	}

	if t, ok := firstOfType(nested, TypeMIME); ok {
		if !utf8.Valid(t.Payload) {
			return SmartPosterRecord{}, fmt.Errorf("smart poster type record: %w", ErrEncoding)
		}
		s := string(t.Payload)
		mimeType = &s
	}

	return SmartPosterRecord{
		URI:      *uri,
		Title:    title,
		Action:   action,
		MIMEType: mimeType,
	}, nil
}

func firstOfType(records []RawRecord, typ []byte) (RawRecord, bool) {
	for _, r := range records {
		if r.IsType(typ) {
			return r, true
		}
	}
	return RawRecord{}, false
}
