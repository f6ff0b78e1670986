// go-nfclock
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-nfclock.
//
// go-nfclock is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-nfclock is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-nfclock; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Command lockd runs the lock control loop on a Linux board
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaparooProject/go-nfclock"
	"github.com/ZaparooProject/go-nfclock/internal/config"
	"github.com/ZaparooProject/go-nfclock/internal/logger"
	"github.com/ZaparooProject/go-nfclock/store"
	"github.com/ZaparooProject/go-nfclock/transport/udp"
	"github.com/spf13/pflag"
)

func main() {
	fs := pflag.NewFlagSet("lockd", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "lockd:", err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.Log.EffectiveLevel(), cfg.Log.Format)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "lockd:", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	nfclock.SetLogger(log.Desugar())
	nfclock.SetDebugEnabled(cfg.Log.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorw("lockd stopped", "err", err)
		stop()
		os.Exit(1)
	}
	log.Infow("lockd stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	hw := hardwareID(cfg.Device.HardwareID)

	region, err := store.OpenFileRegion(cfg.Storage.Path, cfg.Storage.Size)
	if err != nil {
		return fmt.Errorf("open config region: %w", err)
	}
	defer func() { _ = region.Close() }()

	conn, err := udp.Listen(cfg.Network.Listen)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	hwr, err := openHardware(ctx, cfg)
	if err != nil {
		return err
	}
	defer hwr.Close()

	sink, closeSinks, err := openSinks(cfg, hw.DeviceName(cfg.Device.NamePrefix), log)
	if err != nil {
		return err
	}
	defer closeSinks()

	opts := []nfclock.Option{
		nfclock.WithTransport(conn),
		nfclock.WithActuator(hwr.pulse),
		nfclock.WithTagPoller(hwr.monitor),
		nfclock.WithEventSink(sink),
		nfclock.WithNamePrefix(cfg.Device.NamePrefix),
		nfclock.WithDiscoveryToken(cfg.Device.DiscoveryToken),
	}
	if hwr.indicator != nil {
		opts = append(opts, nfclock.WithIndicator(hwr.indicator))
	}
	if cfg.Network.Interface != "" {
		opts = append(opts, nfclock.WithLinkMonitor(udp.NewInterfaceLink(cfg.Network.Interface)))
	}

	lock, err := nfclock.New(hw, store.New(region), opts...)
	if err != nil {
		return fmt.Errorf("boot lock: %w", err)
	}

	log.Infow("lockd started",
		"name", lock.Name(),
		"listen", conn.LocalAddr().String(),
		"reader", hwr.portName,
		"config", lock.Config().Redacted())

	err = lock.Run(ctx, cfg.Loop.Interval)

	m := hwr.monitor.GetMetrics()
	log.Infow("reader statistics",
		"polls", m.PollCycles,
		"tags_read", m.TagsRead,
		"read_errors", m.ReadErrors,
		"removals", m.Removals,
		"pulses", hwr.pulse.Pulses())
	return err
}
