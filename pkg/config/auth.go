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

package config

import (
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

type Auth struct {
	Creds map[string]CredentialEntry `toml:"creds,omitempty"`
}

type CredentialEntry struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// paho accepts tcp and ssl as aliases of the mqtt schemes
var schemeAliases = map[string]string{
	"tcp": "mqtt",
	"ssl": "mqtts",
	"tls": "mqtts",
}

func normalizeScheme(scheme string) string {
	lower := strings.ToLower(scheme)
	if canonical, ok := schemeAliases[lower]; ok {
		return canonical
	}
	return lower
}

// LookupAuth finds the credentials for a broker URL. Keys with a scheme
// match on scheme (aliases included), host and path prefix. Schemeless
// keys match on host:port only and are tried last.
func LookupAuth(auth Auth, brokerURL string) *CredentialEntry {
	if len(auth.Creds) == 0 {
		return nil
	}

	u, err := url.Parse(brokerURL)
	if err != nil || u.Host == "" {
		// bare host:port
		u, err = url.Parse("mqtt://" + brokerURL)
		if err != nil {
			log.Warn().Msgf("invalid auth request url: %s", brokerURL)
			return nil
		}
	}

	scheme := normalizeScheme(u.Scheme)

	for k, v := range auth.Creds {
		if !strings.Contains(k, "://") {
			continue
		}
		defURL, err := url.Parse(k)
		if err != nil {
			log.Error().Msgf("invalid auth config url: %s", k)
			continue
		}
		if normalizeScheme(defURL.Scheme) == scheme &&
			strings.EqualFold(defURL.Host, u.Host) &&
			strings.HasPrefix(u.Path, defURL.Path) {
			return &v
		}
	}

	for k, v := range auth.Creds {
		if strings.Contains(k, "://") {
			continue
		}
		if strings.EqualFold(k, u.Host) {
			return &v
		}
	}

	return nil
}
