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
	"encoding/json"
	"fmt"

	"golang.org/x/text/language"
)

// Kind identifies the variant of a DecodedRecord.
type Kind string

const (
	KindURI         Kind = "uri"
	KindText        Kind = "text"
	KindSmartPoster Kind = "smart_poster"
)

// DecodedRecord is one of URIRecord, TextRecord or SmartPosterRecord. The
// set is closed; consumers switch on the concrete type or on Kind.
type DecodedRecord interface {
	Kind() Kind
	decoded()
}

// URIRecord is a fully resolved URI from a URI or absolute-URI record.
type URIRecord struct {
	URI string `json:"uri"`
}

func (URIRecord) Kind() Kind { return KindURI }
func (URIRecord) decoded()   {}

func (r URIRecord) MarshalJSON() ([]byte, error) {
	type alias URIRecord
	//nolint:wrapcheck // plain struct encoding
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		alias
	}{KindURI, alias(r)})
}

// TextEncoding is the character encoding selected by bit 7 of a Text
// record status byte.
type TextEncoding string

const (
	EncodingUTF8  TextEncoding = "UTF-8"
	EncodingUTF16 TextEncoding = "UTF-16"
)

// TextRecord is a decoded Text record.
type TextRecord struct {
	LanguageCode string       `json:"languageCode"`
	Text         string       `json:"text"`
	Encoding     TextEncoding `json:"encoding"`
}

func (TextRecord) Kind() Kind { return KindText }
func (TextRecord) decoded()   {}

// Language parses the IANA language code of the record.
func (r TextRecord) Language() (language.Tag, error) {
	tag, err := language.Parse(r.LanguageCode)
	if err != nil {
		return language.Und, fmt.Errorf("invalid language code %q: %w", r.LanguageCode, err)
	}
	return tag, nil
}

func (r TextRecord) MarshalJSON() ([]byte, error) {
	type alias TextRecord
	//nolint:wrapcheck // plain struct encoding
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		alias
	}{KindText, alias(r)})
}

// SmartPosterRecord is a decoded Smart Poster. URI is always set; the
// remaining fields are optional metadata.
type SmartPosterRecord struct {
	Title    *TextRecord       `json:"title,omitempty"`
	MIMEType *string           `json:"mimeType,omitempty"`
	URI      URIRecord         `json:"uri"`
	Action   RecommendedAction `json:"action"`
}

func (SmartPosterRecord) Kind() Kind { return KindSmartPoster }
func (SmartPosterRecord) decoded()   {}

func (r SmartPosterRecord) MarshalJSON() ([]byte, error) {
	type alias SmartPosterRecord
	//nolint:wrapcheck // plain struct encoding
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		alias
	}{KindSmartPoster, alias(r)})
}
