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

package cli

import (
	"bytes"
	"encoding/hex"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/ZaparooProject/zaparoo-ndef/pkg/ndef"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var smartPosterMessage = []byte{
	0xD1, 0x02, 0x1E, 'S', 'p',
	0x91, 0x01, 0x0C, 'U', 0x01, 'e', 'x', 'a', 'm', 'p', 'l', 'e', '.', 'c', 'o', 'm',
	0x51, 0x01, 0x0A, 'T', 0x02, 'e', 'n', 'E', 'x', 'a', 'm', 'p', 'l', 'e',
}

func parseFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := flag.NewFlagSet("ndefdump", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	flags := SetupFlags(fs)
	require.NoError(t, fs.Parse(args))
	return flags
}

func TestSetupFlagsDefaults(t *testing.T) {
	t.Parallel()

	flags := parseFlags(t)
	assert.Empty(t, *flags.Hex)
	assert.Empty(t, *flags.File)
	assert.False(t, *flags.Watch)
	assert.False(t, *flags.Version)
	assert.False(t, *flags.Debug)
	assert.False(t, *flags.Raw)
}

func TestReadInput(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tags/poster.bin", smartPosterMessage, 0o600))

	got, err := parseFlags(t, "-hex", "d1 01").ReadInput(fs, strings.NewReader("unused"))
	require.NoError(t, err)
	assert.Equal(t, []byte("d1 01"), got)

	got, err = parseFlags(t, "-file", "/tags/poster.bin").ReadInput(fs, strings.NewReader("unused"))
	require.NoError(t, err)
	assert.Equal(t, smartPosterMessage, got)

	got, err = parseFlags(t).ReadInput(fs, bytes.NewReader([]byte{0x01, 0x02}))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, got)

	_, err = parseFlags(t, "-file", "/tags/missing.bin").ReadInput(fs, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input file")

	_, err = parseFlags(t, "-hex", "00", "-file", "/tags/poster.bin").ReadInput(fs, nil)
	require.Error(t, err)
}

func TestDecodeSmartPoster(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/poster.hex", []byte(hex.EncodeToString(smartPosterMessage)), 0o600))

	var out bytes.Buffer
	err := parseFlags(t, "-file", "/poster.hex").Decode(fs, nil, &out)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"records": [{
			"kind": "smart_poster",
			"uri": {"kind": "uri", "uri": "http://www.example.com"},
			"title": {"kind": "text", "languageCode": "en", "text": "Example", "encoding": "UTF-8"},
			"action": "unknown"
		}]
	}`, out.String())
	assert.Contains(t, out.String(), "\n  ")
}

func TestDecodeRaw(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	msg := []byte{0xD1, 0x01, 0x04, 'U', 0x05, '1', '2', '3'}
	err := parseFlags(t, "-raw").Decode(afero.NewMemMapFs(), bytes.NewReader(msg), &out)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"raw": "d101045505313233",
		"records": [{"kind": "uri", "uri": "tel:123"}]
	}`, out.String())
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := parseFlags(t, "-hex", "d1 01 10 55").Decode(afero.NewMemMapFs(), nil, &out)
	require.ErrorIs(t, err, ndef.ErrTruncated)
	assert.Empty(t, out.String())

	err = parseFlags(t).Decode(afero.NewMemMapFs(), strings.NewReader(""), &out)
	require.Error(t, err)
}

func TestLogOuterMessageDoesNotPanic(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		logOuterMessage(nil)
		logOuterMessage([]byte{0x03, 0x00, 0xFE})
		logOuterMessage(smartPosterMessage)
		logOuterMessage([]byte{0xD1, 0xFF})
	})
}
