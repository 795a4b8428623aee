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

package readers

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/zaparoo-ndef/pkg/config"
	"github.com/ZaparooProject/zaparoo-ndef/pkg/ndef"
)

var ErrEmptyPayload = errors.New("empty payload")

type DriverMetadata struct {
	ID          string
	Description string
}

// Scan is one tag event from a reader. A Scan with no error and Removed
// set means the tag left the reader.
type Scan struct {
	ScanTime time.Time
	Error    error
	Source   string
	Raw      []byte
	Records  []ndef.DecodedRecord
	Removed  bool
}

type Reader interface {
	// Metadata returns static information about the driver.
	Metadata() DriverMetadata
	// IDs returns the driver names this reader accepts in its config.
	IDs() []string
	// Open starts reading from the device and sends every tag event to the
	// channel until Close is called.
	Open(config.ReadersConnect, chan<- Scan) error
	// Close stops reading and releases the device.
	Close() error
	// Device returns the device connection string.
	Device() string
	// Connected returns true while the reader is active.
	Connected() bool
	// Info describes the connected device.
	Info() string
}

// NewScan decodes data and wraps the result in a Scan.
func NewScan(source string, data []byte, now time.Time) Scan {
	records, raw, err := DecodePayload(data)
	return Scan{
		Source:   source,
		ScanTime: now,
		Raw:      raw,
		Records:  records,
		Error:    err,
	}
}

// DecodePayload accepts either raw bytes or their hex text form, holding
// either a bare NDEF message or Type 2 tag memory starting with its TLV
// area. It returns the decoded records and the binary payload.
//
// Input is read as hex when every byte is a hex digit, whitespace or a
// colon and the digit count is even; anything else is taken as raw bytes.
// Raw data made only of those characters is therefore hex decoded. Real
// dumps are not affected since a message starts with an MB header byte
// (0x80 or above) and tag memory starts with a TLV tag below 0x04.
func DecodePayload(data []byte) ([]ndef.DecodedRecord, []byte, error) {
	raw := data
	if b, ok := decodeHex(data); ok {
		raw = b
	}
	if len(raw) == 0 {
		return nil, nil, ErrEmptyPayload
	}

	// a message starts with MB set, TLV areas start with a TLV tag
	if raw[0]&0x80 == 0 {
		records, err := ndef.DecodeTag(raw)
		if err != nil {
			return nil, raw, fmt.Errorf("failed to decode tag memory: %w", err)
		}
		return records, raw, nil
	}

	msg, err := ndef.ParseMessage(raw)
	if err != nil {
		return nil, raw, fmt.Errorf("failed to parse NDEF message: %w", err)
	}
	return ndef.DecodeAll(msg), raw, nil
}

// decodeHex reports whether data is hex text, ignoring whitespace and the
// colon separators some tools print between bytes.
func decodeHex(data []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, true
	}

	clean := make([]byte, 0, len(trimmed))
	for _, c := range trimmed {
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ':':
			continue
		case (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F'):
			clean = append(clean, c)
		default:
			return nil, false
		}
	}
	if len(clean)%2 != 0 {
		return nil, false
	}

	out := make([]byte, hex.DecodedLen(len(clean)))
	if _, err := hex.Decode(out, clean); err != nil {
		return nil, false
	}
	return out, true
}
