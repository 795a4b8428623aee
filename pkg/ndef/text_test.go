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
	"strings"
	"testing"
	"unicode/utf16"

	gondef "github.com/hsanjuan/go-ndef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"pgregory.net/rapid"
)

func utf16Text(order binary.AppendByteOrder, s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = order.AppendUint16(out, u)
	}
	return out
}

func utf16Record(lang string, body []byte) RawRecord {
	payload := append([]byte{0x80 | byte(len(lang))}, lang...)
	return NewWellKnownRecord("T", append(payload, body...))
}

func TestDecodeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr error
		name    string
		want    TextRecord
		rec     RawRecord
	}{
		{
			name: "UTF-8 english",
			rec:  textRecord("en", "Hello"),
			want: TextRecord{LanguageCode: "en", Text: "Hello", Encoding: EncodingUTF8},
		},
		{
			name: "UTF-8 unicode",
			rec:  textRecord("zh-CN", "测试"), //nolint:gosmopolitan // testing Unicode support
			want: TextRecord{LanguageCode: "zh-CN", Text: "测试", Encoding: EncodingUTF8}, //nolint:gosmopolitan // testing Unicode support
		},
		{
			name: "empty language and text",
			rec:  NewWellKnownRecord("T", []byte{0x00}),
			want: TextRecord{Encoding: EncodingUTF8},
		},
		{
			name: "reserved bit 6 is ignored",
			rec:  NewWellKnownRecord("T", []byte{0x42, 'e', 'n', 'h', 'i'}),
			want: TextRecord{LanguageCode: "en", Text: "hi", Encoding: EncodingUTF8},
		},
		{
			name: "UTF-16 big-endian without BOM",
			rec:  utf16Record("en", utf16Text(binary.BigEndian, "Hi ✓")),
			want: TextRecord{LanguageCode: "en", Text: "Hi ✓", Encoding: EncodingUTF16},
		},
		{
			name: "UTF-16 little-endian with BOM",
			rec: utf16Record("fr", append([]byte{0xFF, 0xFE},
				utf16Text(binary.LittleEndian, "Été")...)),
			want: TextRecord{LanguageCode: "fr", Text: "Été", Encoding: EncodingUTF16},
		},
		{
			name: "UTF-16 big-endian with BOM",
			rec: utf16Record("de", append([]byte{0xFE, 0xFF},
				utf16Text(binary.BigEndian, "Grüße")...)),
			want: TextRecord{LanguageCode: "de", Text: "Grüße", Encoding: EncodingUTF16},
		},
		{
			name: "UTF-16 surrogate pair",
			rec:  utf16Record("en", utf16Text(binary.BigEndian, "🎮")),
			want: TextRecord{LanguageCode: "en", Text: "🎮", Encoding: EncodingUTF16},
		},
		{
			name:    "wrong TNF",
			rec:     RawRecord{TNF: TNFExternal, Type: []byte("T"), Payload: []byte{0x00}},
			wantErr: ErrWrongTNF,
		},
		{
			name:    "wrong type",
			rec:     uriRecord(0x01, "example.com"),
			wantErr: ErrWrongType,
		},
		{
			name:    "missing status byte",
			rec:     NewWellKnownRecord("T", nil),
			wantErr: ErrTruncated,
		},
		{
			name:    "language code longer than payload",
			rec:     NewWellKnownRecord("T", []byte{0x05, 'e', 'n'}),
			wantErr: ErrEncoding,
		},
		{
			name:    "language code not ASCII",
			rec:     NewWellKnownRecord("T", []byte{0x02, 0xC3, 0xA9, 'h', 'i'}),
			wantErr: ErrEncoding,
		},
		{
			name:    "invalid UTF-8 text",
			rec:     NewWellKnownRecord("T", []byte{0x02, 'e', 'n', 0xFF, 0xFE}),
			wantErr: ErrEncoding,
		},
		{
			name:    "UTF-16 odd length",
			rec:     utf16Record("en", []byte{0x00, 'a', 0x00}),
			wantErr: ErrEncoding,
		},
		{
			name:    "UTF-16 lone high surrogate",
			rec:     utf16Record("en", []byte{0xD8, 0x3D, 0x00, 'a'}),
			wantErr: ErrEncoding,
		},
		{
			name:    "UTF-16 lone low surrogate",
			rec:     utf16Record("en", []byte{0xDC, 0x00}),
			wantErr: ErrEncoding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeText(tt.rec)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.False(t, IsText(tt.rec))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsText(tt.rec))
		})
	}
}

func TestDecodeTextTruncatedLanguageIsBothKinds(t *testing.T) {
	t.Parallel()

	_, err := DecodeText(NewWellKnownRecord("T", []byte{0x3F, 'e', 'n'}))
	require.ErrorIs(t, err, ErrTruncated)
	require.ErrorIs(t, err, ErrEncoding)
}

func TestDecodeTextFromGoNDEF(t *testing.T) {
	t.Parallel()

	data := marshalGoNDEF(t, gondef.NewTextRecord("hello world", "en-US"))
	records, err := ParseMessage(data)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got, err := DecodeText(records[0])
	require.NoError(t, err)
	assert.Equal(t, "en-US", got.LanguageCode)
	assert.Equal(t, "hello world", got.Text)
}

func TestTextRecordLanguage(t *testing.T) {
	t.Parallel()

	tag, err := TextRecord{LanguageCode: "en-GB"}.Language()
	require.NoError(t, err)
	assert.Equal(t, language.BritishEnglish, tag)

	_, err = TextRecord{LanguageCode: "not a tag!"}.Language()
	require.Error(t, err)
}

func noBOMPrefix(s string) bool {
	return !strings.HasPrefix(s, "\uFEFF") && !strings.HasPrefix(s, "\uFFFE")
}

// TestPropertyTextRoundTripUTF8 checks status 0x00|len(lc) payloads decode
// to the language code and text they were built from.
func TestPropertyTextRoundTripUTF8(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		lc := rapid.StringMatching(`[a-zA-Z0-9-]{0,63}`).Draw(t, "lc")
		txt := rapid.String().Draw(t, "txt")

		got, err := DecodeText(textRecord(lc, txt))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.LanguageCode != lc || got.Text != txt || got.Encoding != EncodingUTF8 {
			t.Fatalf("got %+v, want (%q, %q)", got, lc, txt)
		}
	})
}

// TestPropertyTextRoundTripUTF16 is the UTF-16 variant with status
// 0x80|len(lc).
func TestPropertyTextRoundTripUTF16(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		lc := rapid.StringMatching(`[a-zA-Z0-9-]{0,63}`).Draw(t, "lc")
		txt := rapid.String().Filter(noBOMPrefix).Draw(t, "txt")

		got, err := DecodeText(utf16Record(lc, utf16Text(binary.BigEndian, txt)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.LanguageCode != lc || got.Text != txt || got.Encoding != EncodingUTF16 {
			t.Fatalf("got %+v, want (%q, %q)", got, lc, txt)
		}
	})
}
