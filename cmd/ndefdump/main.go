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

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaparooProject/zaparoo-ndef/pkg/cli"
	"github.com/ZaparooProject/zaparoo-ndef/pkg/config"
	"github.com/ZaparooProject/zaparoo-ndef/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-ndef/pkg/readers"
	"github.com/ZaparooProject/zaparoo-ndef/pkg/readers/file"
	"github.com/ZaparooProject/zaparoo-ndef/pkg/readers/mqtt"
	"github.com/ZaparooProject/zaparoo-ndef/pkg/service"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags(flag.CommandLine)
	flag.Parse()

	if *flags.Version {
		_, _ = fmt.Printf("Zaparoo NDEF v%s\n", config.AppVersion)
		return nil
	}

	logWriters := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
	if err := helpers.InitLogging(config.DefaultLogDir(), config.LogFile, logWriters); err != nil {
		return fmt.Errorf("error initializing logging: %w", err)
	}
	helpers.SetDebugLogging(*flags.Debug)

	if !*flags.Watch {
		return flags.Decode(afero.NewOsFs(), os.Stdin, os.Stdout)
	}

	cfg, err := config.NewConfig(config.DefaultConfigDir(), config.BaseDefaults)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if cfg.DebugLogging() {
		helpers.SetDebugLogging(true)
	}
	if *flags.Raw {
		cfg.SetIncludeRaw(true)
	}
	log.Info().Msgf("loaded config from %s", cfg.Path())

	return watch(cfg)
}

func watch(cfg *config.Instance) error {
	clock := clockwork.NewRealClock()
	var rs []readers.Reader
	for _, device := range cfg.Readers().Connect {
		switch device.Driver {
		case "file":
			rs = append(rs, file.NewReader(clock))
		case "mqtt":
			rs = append(rs, mqtt.NewReader(clock))
		}
	}

	stopSvc, done, err := service.Start(cfg, rs, os.Stdout)
	if errors.Is(err, service.ErrNoReaders) {
		return fmt.Errorf("%w, add [[readers.connect]] entries to %s", err, cfg.Path())
	} else if err != nil {
		return fmt.Errorf("error starting service: %w", err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
	case <-done:
	}

	if err := stopSvc(); err != nil {
		return fmt.Errorf("error stopping service: %w", err)
	}
	return nil
}
