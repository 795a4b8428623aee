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
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ZaparooProject/zaparoo-ndef/pkg/ndef"
	"github.com/ZaparooProject/zaparoo-ndef/pkg/readers"
	gondef "github.com/hsanjuan/go-ndef"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

type Flags struct {
	Hex     *string
	File    *string
	Watch   *bool
	Version *bool
	Debug   *bool
	Raw     *bool
}

func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		Hex: fs.String(
			"hex",
			"",
			"decode a hex encoded NDEF message or tag dump",
		),
		File: fs.String(
			"file",
			"",
			"decode an NDEF message or tag dump file, raw or hex",
		),
		Watch: fs.Bool(
			"watch",
			false,
			"run the configured readers and print every scan",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Debug: fs.Bool(
			"debug",
			false,
			"enable debug logging",
		),
		Raw: fs.Bool(
			"raw",
			false,
			"include the hex encoded input in the output",
		),
	}
}

// Report is the output of a one-shot decode.
type Report struct {
	Raw     string               `json:"raw,omitempty"`
	Records []ndef.DecodedRecord `json:"records"`
}

// ReadInput returns the bytes to decode from the hex flag, the file flag
// or stdin, in that order.
func (f *Flags) ReadInput(fs afero.Fs, stdin io.Reader) ([]byte, error) {
	switch {
	case *f.Hex != "" && *f.File != "":
		return nil, errors.New("only one of -hex and -file may be set")
	case *f.Hex != "":
		return []byte(*f.Hex), nil
	case *f.File != "":
		data, err := afero.ReadFile(fs, *f.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		return data, nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
}

// Decode decodes one input and writes the report as indented JSON.
func (f *Flags) Decode(fs afero.Fs, stdin io.Reader, stdout io.Writer) error {
	data, err := f.ReadInput(fs, stdin)
	if err != nil {
		return err
	}

	records, raw, err := readers.DecodePayload(data)
	if err != nil {
		return fmt.Errorf("failed to decode input: %w", err)
	}
	logOuterMessage(raw)

	report := Report{Records: records}
	if *f.Raw {
		report.Raw = hex.EncodeToString(raw)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// logOuterMessage prints a debug summary of the outer message as seen by an
// independent parser, useful when a record is silently dropped.
func logOuterMessage(raw []byte) {
	if len(raw) == 0 || zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}
	if raw[0]&0x80 == 0 {
		msg, err := ndef.ExtractMessage(raw)
		if err != nil || len(msg) == 0 {
			return
		}
		raw = msg
	}

	msg := &gondef.Message{}
	if _, err := msg.Unmarshal(bytes.Clone(raw)); err != nil {
		log.Debug().Err(err).Msg("outer message not parseable by go-ndef")
		return
	}

	types := make([]string, 0, len(msg.Records))
	for _, rec := range msg.Records {
		types = append(types, fmt.Sprintf("%s:%s", ndef.TNF(rec.TNF()), rec.Type()))
	}
	log.Debug().Msgf("outer message has %d records: %s", len(msg.Records), strings.Join(types, ", "))
}
