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

import "errors"

var (
	// ErrWrongTNF is returned when a record's TNF does not match the decoder.
	ErrWrongTNF = errors.New("wrong type name format")
	// ErrWrongType is returned when a record's type does not match the decoder.
	ErrWrongType = errors.New("wrong record type")
	// ErrEncoding is returned for bytes that are invalid in the declared charset.
	ErrEncoding = errors.New("invalid encoding")
	// ErrTruncated is returned when a payload is shorter than its layout requires.
	ErrTruncated = errors.New("truncated payload")
	// ErrMalformedNestedMessage is returned when a Smart Poster payload is not
	// a well-formed NDEF message.
	ErrMalformedNestedMessage = errors.New("malformed nested NDEF message")
	// ErrMissingRequiredURI is returned when a Smart Poster has no URI record.
	ErrMissingRequiredURI = errors.New("smart poster has no URI record")
	// ErrInvalidHeader is returned for NDEF record headers with invalid flag
	// combinations.
	ErrInvalidHeader = errors.New("invalid NDEF record header")

	// ErrNoNDEF is returned when no NDEF message TLV is found in tag memory.
	ErrNoNDEF = errors.New("no NDEF record found")
	// ErrInvalidNDEF is returned when the TLV structure around a message is invalid.
	ErrInvalidNDEF = errors.New("invalid NDEF format")
)
