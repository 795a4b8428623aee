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

package mqtt

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ZaparooProject/zaparoo-ndef/pkg/config"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ClientFactory builds the paho client, swapped out in tests.
type ClientFactory func(opts *mqtt.ClientOptions) mqtt.Client

var DefaultClientFactory ClientFactory = mqtt.NewClient

// ParsePath splits a reader path such as "broker:1883/tags/reader1" or
// "mqtts://broker:8883/tags" into its broker address and topic.
func ParsePath(path string) (broker, topic string, err error) {
	if path == "" {
		return "", "", errors.New("path cannot be empty")
	}

	urlStr := path
	if !strings.Contains(path, "://") {
		urlStr = "mqtt://" + path
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse MQTT URL: %w", err)
	}
	if u.Host == "" {
		return "", "", errors.New("broker address (host:port) is required")
	}

	topic = strings.TrimLeft(u.Path, "/")
	if topic == "" {
		return "", "", errors.New("topic is required")
	}

	return u.Host, topic, nil
}

type protocolInfo struct {
	protocol string
	host     string
	useTLS   bool
}

func parseProtocol(brokerURL string) protocolInfo {
	info := protocolInfo{protocol: "tcp", host: brokerURL}

	scheme, rest, ok := strings.Cut(brokerURL, "://")
	if !ok {
		return info
	}
	info.host = rest
	switch strings.ToLower(scheme) {
	case "mqtts", "ssl", "tls":
		info.protocol = "ssl"
		info.useTLS = true
	}
	return info
}

// NewClientOptions configures a client for brokerURL with a random client
// ID, credentials from auth.toml and TLS for the secure schemes.
func NewClientOptions(brokerURL, clientIDPrefix string) *mqtt.ClientOptions {
	info := parseProtocol(brokerURL)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("%s://%s", info.protocol, info.host))
	opts.SetClientID(clientIDPrefix + uuid.New().String()[:8])
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetOrderMatters(false)

	creds := config.LookupAuth(config.GetAuthCfg(), brokerURL)
	if creds != nil && creds.Username != "" {
		opts.SetUsername(creds.Username)
		opts.SetPassword(creds.Password)
		log.Debug().Msgf("mqtt: using authentication for %s", info.host)
	}

	if info.useTLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
		log.Debug().Msgf("mqtt: using TLS for %s", info.host)
	}

	return opts
}
