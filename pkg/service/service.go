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

// Package service connects the configured readers and writes every decoded
// tag event as a JSON line.
package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/ZaparooProject/zaparoo-ndef/pkg/config"
	"github.com/ZaparooProject/zaparoo-ndef/pkg/ndef"
	"github.com/ZaparooProject/zaparoo-ndef/pkg/readers"
	"github.com/rs/zerolog/log"
)

var ErrNoReaders = errors.New("no readers connected")

// ScanLine is the JSON form of one scan written to the output.
type ScanLine struct {
	Time    time.Time            `json:"time"`
	Source  string               `json:"source"`
	Error   string               `json:"error,omitempty"`
	Raw     string               `json:"raw,omitempty"`
	Records []ndef.DecodedRecord `json:"records"`
	Removed bool                 `json:"removed,omitempty"`
}

func newScanLine(scan readers.Scan, includeRaw bool) ScanLine {
	line := ScanLine{
		Time:    scan.ScanTime,
		Source:  scan.Source,
		Records: scan.Records,
		Removed: scan.Removed,
	}
	if line.Records == nil {
		line.Records = []ndef.DecodedRecord{}
	}
	if scan.Error != nil {
		line.Error = scan.Error.Error()
	}
	if includeRaw && len(scan.Raw) > 0 {
		line.Raw = hex.EncodeToString(scan.Raw)
	}
	return line
}

// connectReaders opens a reader for every configured device. Each reader
// instance is used for at most one device and duplicate paths are skipped.
func connectReaders(
	cfg *config.Instance,
	rs []readers.Reader,
	scanQueue chan<- readers.Scan,
) []readers.Reader {
	var opened []readers.Reader
	pathSeen := make(map[string]string)

	for _, device := range cfg.Readers().Connect {
		if first, exists := pathSeen[device.Path]; exists {
			log.Warn().Msgf(
				"device path %s configured for multiple readers (%s and %s), ignoring %s",
				device.Path, first, device.ConnectionString(), device.ConnectionString(),
			)
			continue
		}
		pathSeen[device.Path] = device.ConnectionString()

		for _, r := range rs {
			if r == nil || slices.Contains(opened, r) || !slices.Contains(r.IDs(), device.Driver) {
				continue
			}

			log.Debug().Msgf("connecting to reader: %s", device.ConnectionString())
			if err := r.Open(device, scanQueue); err != nil {
				log.Warn().Msgf("error opening reader: %s", err)
				continue
			}
			opened = append(opened, r)
			log.Info().Msgf("opened reader: %s", device.ConnectionString())
			break
		}
	}

	return opened
}

// Start opens the configured readers and writes one JSON line per scan to
// out until stop is called. The done channel closes once the scan loop has
// exited.
func Start(
	cfg *config.Instance,
	rs []readers.Reader,
	out io.Writer,
) (stop func() error, done <-chan struct{}, err error) {
	ctx, cancel := context.WithCancel(context.Background())
	scanQueue := make(chan readers.Scan)
	doneCh := make(chan struct{})

	go scanLoop(ctx, cfg, scanQueue, json.NewEncoder(out), doneCh)

	opened := connectReaders(cfg, rs, scanQueue)
	if len(opened) == 0 {
		cancel()
		<-doneCh
		return nil, nil, ErrNoReaders
	}

	stop = func() error {
		var errs []error
		for _, r := range opened {
			if closeErr := r.Close(); closeErr != nil {
				errs = append(errs, fmt.Errorf("failed to close %s: %w", r.Device(), closeErr))
			}
		}
		cancel()
		<-doneCh
		log.Info().Msg("service stopped")
		return errors.Join(errs...)
	}

	return stop, doneCh, nil
}

func scanLoop(
	ctx context.Context,
	cfg *config.Instance,
	scanQueue <-chan readers.Scan,
	enc *json.Encoder,
	done chan<- struct{},
) {
	defer close(done)

	var prev []byte
	for {
		var scan readers.Scan
		select {
		case <-ctx.Done():
			log.Debug().Msg("closing scan loop via context cancellation")
			return
		case scan = <-scanQueue:
		}

		switch {
		case scan.Error != nil:
			log.Warn().Err(scan.Error).Msgf("error reading tag from %s", scan.Source)
		case scan.Removed:
			log.Info().Msgf("tag removed from %s", scan.Source)
			prev = nil
		case prev != nil && bytes.Equal(scan.Raw, prev):
			log.Debug().Msg("ignoring duplicate scan")
			continue
		default:
			log.Info().Msgf("new tag scanned on %s: %d records", scan.Source, len(scan.Records))
			prev = scan.Raw
		}

		if err := enc.Encode(newScanLine(scan, cfg.IncludeRaw())); err != nil {
			log.Error().Err(err).Msg("failed to write scan")
		}
	}
}
