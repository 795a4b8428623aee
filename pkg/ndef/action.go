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
)

// RecommendedAction is the Smart Poster action record value.
type RecommendedAction int8

const (
	ActionUnknown        RecommendedAction = -1
	ActionDo             RecommendedAction = 0
	ActionSaveForLater   RecommendedAction = 1
	ActionOpenForEditing RecommendedAction = 2
)

// ParseRecommendedAction maps an action record byte to its action. Bytes
// outside the defined range map to ActionUnknown.
func ParseRecommendedAction(b byte) RecommendedAction {
	switch b {
	case 0x00:
		return ActionDo
	case 0x01:
		return ActionSaveForLater
	case 0x02:
		return ActionOpenForEditing
	default:
		return ActionUnknown
	}
}

func (a RecommendedAction) String() string {
	switch a {
	case ActionDo:
		return "do_action"
	case ActionSaveForLater:
		return "save_for_later"
	case ActionOpenForEditing:
		return "open_for_editing"
	case ActionUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("action(%d)", int8(a))
	}
}

func (a RecommendedAction) MarshalJSON() ([]byte, error) {
	//nolint:wrapcheck // string encoding cannot fail
	return json.Marshal(a.String())
}
