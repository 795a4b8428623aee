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
	"time"

	"github.com/ZaparooProject/zaparoo-ndef/pkg/helpers/syncutil"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type fakeClient struct {
	connectErr   error
	subscribeErr error
	handler      mqtt.MessageHandler
	topic        string
	disconnects  int
	mu           syncutil.Mutex
	connected    bool
	timeout      bool
}

func (c *fakeClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeClient) IsConnectionOpen() bool {
	return c.IsConnected()
}

func (c *fakeClient) Connect() mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.timeout:
		return &fakeToken{}
	case c.connectErr != nil:
		return &fakeToken{err: c.connectErr, complete: true}
	}
	c.connected = true
	return &fakeToken{complete: true}
}

func (c *fakeClient) Disconnect(_ uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.disconnects++
}

func (*fakeClient) Publish(_ string, _ byte, _ bool, _ any) mqtt.Token {
	return &fakeToken{complete: true}
}

func (c *fakeClient) Subscribe(topic string, _ byte, callback mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subscribeErr != nil {
		return &fakeToken{err: c.subscribeErr, complete: true}
	}
	c.topic = topic
	c.handler = callback
	return &fakeToken{complete: true}
}

func (*fakeClient) SubscribeMultiple(_ map[string]byte, _ mqtt.MessageHandler) mqtt.Token {
	return &fakeToken{complete: true}
}

func (*fakeClient) Unsubscribe(_ ...string) mqtt.Token {
	return &fakeToken{complete: true}
}

func (c *fakeClient) AddRoute(_ string, callback mqtt.MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = callback
}

func (*fakeClient) OptionsReader() mqtt.ClientOptionsReader {
	return mqtt.ClientOptionsReader{}
}

func (c *fakeClient) subscribed() (string, mqtt.MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.topic, c.handler
}

type fakeToken struct {
	err      error
	complete bool
}

func (*fakeToken) Wait() bool {
	return true
}

func (t *fakeToken) WaitTimeout(_ time.Duration) bool {
	return t.complete
}

func (*fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (t *fakeToken) Error() error {
	return t.err
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (*fakeMessage) Duplicate() bool { return false }
func (*fakeMessage) Qos() byte { return 1 }
func (*fakeMessage) Retained() bool { return false }
func (m *fakeMessage) Topic() string { return m.topic }
func (*fakeMessage) MessageID() uint16 { return 1 }
func (m *fakeMessage) Payload() []byte { return m.payload }
func (*fakeMessage) Ack() {}
