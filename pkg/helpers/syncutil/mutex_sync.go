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

//go:build !deadlock

// Package syncutil holds the locks used across the module. Building with
// -tags=deadlock swaps in go-deadlock so lock ordering bugs are reported
// while the reader goroutines run.
package syncutil

import "sync"

// DeadlockEnabled reports whether this build detects deadlocks.
const DeadlockEnabled = false

type Mutex struct {
	sync.Mutex //nolint:forbidigo // wrapped here only
}

type RWMutex struct {
	sync.RWMutex //nolint:forbidigo // wrapped here only
}
