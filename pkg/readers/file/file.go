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

package file

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/ZaparooProject/zaparoo-ndef/pkg/config"
	"github.com/ZaparooProject/zaparoo-ndef/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-ndef/pkg/readers"
	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Reader decodes a tag dump file every time it changes on disk. The file
// may hold raw bytes or hex text. Emptying or deleting the file removes
// the tag.
type Reader struct {
	clock   clockwork.Clock
	watcher *fsnotify.Watcher
	done    chan struct{}
	device  config.ReadersConnect
	path    string
	last    []byte
	mu      syncutil.Mutex
}

func NewReader(clock clockwork.Clock) *Reader {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Reader{clock: clock}
}

func (*Reader) Metadata() readers.DriverMetadata {
	return readers.DriverMetadata{
		ID:          "file",
		Description: "Tag dump file reader",
	}
}

func (*Reader) IDs() []string {
	return []string{"file"}
}

func (r *Reader) Open(device config.ReadersConnect, scanQueue chan<- readers.Scan) error {
	if !slices.Contains(r.IDs(), device.Driver) {
		return errors.New("invalid reader id: " + device.Driver)
	}

	path := filepath.Clean(device.Path)
	if !filepath.IsAbs(path) {
		return errors.New("invalid device path, must be absolute")
	}

	parent := filepath.Dir(path)
	if _, err := os.Stat(parent); err != nil {
		return fmt.Errorf("failed to stat parent directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// the parent is watched so editors that replace the file are seen
	if err := watcher.Add(parent); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", parent, err)
	}

	r.mu.Lock()
	r.device = device
	r.path = path
	r.last = nil
	r.watcher = watcher
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()

	r.check(scanQueue)

	go func() {
		defer close(done)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				switch {
				case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
					r.remove(scanQueue, "file deleted")
				case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
					r.check(scanQueue)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Msg("file reader: watcher error")
			}
		}
	}()

	log.Info().Msgf("file reader: watching %s", path)
	return nil
}

// check reads the file and sends a scan if its contents changed.
func (r *Reader) check(scanQueue chan<- readers.Scan) {
	r.mu.Lock()
	path := r.path
	source := r.device.ConnectionString()
	r.mu.Unlock()

	contents, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		r.remove(scanQueue, "file deleted")
		return
	}
	if err != nil {
		scanQueue <- readers.Scan{
			Source:   source,
			ScanTime: r.clock.Now(),
			Error:    fmt.Errorf("failed to read tag file: %w", err),
		}
		return
	}
	// whitespace only counts as an empty file
	if len(bytes.TrimSpace(contents)) == 0 {
		r.remove(scanQueue, "file is empty")
		return
	}

	r.mu.Lock()
	if bytes.Equal(contents, r.last) {
		r.mu.Unlock()
		return
	}
	r.last = contents
	r.mu.Unlock()

	scan := readers.NewScan(source, contents, r.clock.Now())
	log.Debug().Msgf("file reader: new tag, %d records", len(scan.Records))
	scanQueue <- scan
}

// remove forgets the current tag and sends a removal scan if one was present.
func (r *Reader) remove(scanQueue chan<- readers.Scan, reason string) {
	r.mu.Lock()
	hadTag := len(r.last) > 0
	r.last = nil
	source := r.device.ConnectionString()
	r.mu.Unlock()

	if !hadTag {
		return
	}
	log.Debug().Msgf("file reader: %s, removing tag", reason)
	scanQueue <- readers.Scan{
		Source:   source,
		ScanTime: r.clock.Now(),
		Removed:  true,
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (r *Reader) Close() error {
	r.mu.Lock()
	watcher := r.watcher
	done := r.done
	r.watcher = nil
	r.mu.Unlock()

	if watcher == nil {
		return nil
	}
	err := watcher.Close()
	<-done
	if err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func (r *Reader) Device() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.device.ConnectionString()
}

func (r *Reader) Connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.watcher != nil
}

func (r *Reader) Info() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}
