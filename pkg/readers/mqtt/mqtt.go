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
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ZaparooProject/zaparoo-ndef/pkg/config"
	"github.com/ZaparooProject/zaparoo-ndef/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-ndef/pkg/readers"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const connectTimeout = 5 * time.Second

// Reader subscribes to a topic and decodes each message payload as tag
// data, in raw or hex form.
type Reader struct {
	client        mqtt.Client
	clock         clockwork.Clock
	scanCh        chan<- readers.Scan
	clientFactory ClientFactory
	device        config.ReadersConnect
	broker        string
	topic         string
	mu            syncutil.RWMutex
}

func NewReader(clock clockwork.Clock) *Reader {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Reader{
		clock:         clock,
		clientFactory: DefaultClientFactory,
	}
}

func (*Reader) Metadata() readers.DriverMetadata {
	return readers.DriverMetadata{
		ID:          "mqtt",
		Description: "MQTT tag data subscriber",
	}
}

func (*Reader) IDs() []string {
	return []string{"mqtt"}
}

func (r *Reader) Open(device config.ReadersConnect, scanQueue chan<- readers.Scan) error {
	if !slices.Contains(r.IDs(), device.Driver) {
		return errors.New("invalid reader id: " + device.Driver)
	}

	broker, topic, err := ParsePath(device.Path)
	if err != nil {
		return fmt.Errorf("failed to parse MQTT path: %w", err)
	}

	r.mu.Lock()
	r.device = device
	r.broker = broker
	r.topic = topic
	r.scanCh = scanQueue
	r.mu.Unlock()

	brokerURL := broker
	if scheme, _, ok := strings.Cut(device.Path, "://"); ok {
		brokerURL = scheme + "://" + broker
	}

	opts := NewClientOptions(brokerURL, "zaparoo-ndef-")

	opts.OnConnect = func(client mqtt.Client) {
		log.Info().Msgf("mqtt reader: connected to %s", broker)

		// QoS 1, resubscribed on every reconnect
		token := client.Subscribe(topic, 1, r.messageHandler())
		if token.Wait() && token.Error() != nil {
			log.Error().Err(token.Error()).Msgf("mqtt reader: failed to subscribe to %s", topic)
			scanQueue <- readers.Scan{
				Source:   device.ConnectionString(),
				ScanTime: r.clock.Now(),
				Error:    fmt.Errorf("failed to subscribe to topic: %w", token.Error()),
			}
			return
		}

		log.Info().Msgf("mqtt reader: subscribed to topic %s", topic)
	}

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("mqtt reader: connection lost")
	}

	client := r.clientFactory(opts)

	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		client.Disconnect(0)
		return errors.New("failed to connect to MQTT broker: connection timeout")
	}
	if err := token.Error(); err != nil {
		client.Disconnect(0)
		return fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	r.mu.Lock()
	r.client = client
	r.mu.Unlock()

	log.Info().Msgf("mqtt reader: opened connection to %s (topic: %s)", broker, topic)
	return nil
}

func (r *Reader) Close() error {
	r.mu.Lock()
	client := r.client
	r.client = nil
	r.mu.Unlock()

	if client != nil && client.IsConnected() {
		log.Debug().Msg("mqtt reader: disconnecting")
		client.Disconnect(250)
	}
	return nil
}

func (r *Reader) Device() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.device.ConnectionString()
}

func (r *Reader) Connected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client != nil && r.client.IsConnected()
}

func (r *Reader) Info() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fmt.Sprintf("MQTT: %s", r.topic)
}

func (r *Reader) messageHandler() mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		payload := msg.Payload()
		if len(payload) == 0 {
			log.Debug().Msg("mqtt reader: ignoring empty message")
			return
		}

		r.mu.RLock()
		source := r.device.ConnectionString()
		scanCh := r.scanCh
		r.mu.RUnlock()

		scan := readers.NewScan(source, payload, r.clock.Now())
		if scan.Error != nil {
			log.Warn().Err(scan.Error).Msgf("mqtt reader: undecodable message on %s", msg.Topic())
		} else {
			log.Debug().Msgf("mqtt reader: decoded %d records from %s", len(scan.Records), msg.Topic())
		}

		scanCh <- scan
	}
}
