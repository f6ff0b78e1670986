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

package nfc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ZaparooProject/go-nfclock"
	"github.com/ZaparooProject/go-nfclock/internal/frame"
	testutil "github.com/ZaparooProject/go-nfclock/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{
		ResponseTimeout:  20 * time.Millisecond,
		SettleDelay:      time.Millisecond,
		InterByteTimeout: time.Millisecond,
	}
}

func TestReader_ReadTag(t *testing.T) {
	t.Parallel()
	port := testutil.NewMockSerialPort(testutil.BuildTagResponse(testutil.TestUID4))
	reader := NewReader(port, fastConfig())

	id, err := reader.ReadTag(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testutil.TestUID4Hex, id)

	writes := port.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, frame.PollCommand, writes[0])
	assert.Equal(t, 1, port.Resets())
}

func TestReader_ReadTagChecksum(t *testing.T) {
	t.Parallel()
	cfg := fastConfig()
	cfg.VerifyChecksum = true
	port := testutil.NewMockSerialPort(
		testutil.CorruptChecksum(testutil.BuildTagResponse(testutil.TestUID4)),
		testutil.BuildTagResponse(testutil.TestUID4),
	)
	reader := NewReader(port, cfg)

	_, err := reader.ReadTag(context.Background())
	require.ErrorIs(t, err, ErrChecksumMismatch)

	id, err := reader.ReadTag(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testutil.TestUID4Hex, id)
}

func TestReader_Timeout(t *testing.T) {
	t.Parallel()
	port := testutil.NewMockSerialPort()
	reader := NewReader(port, fastConfig())

	start := time.Now()
	_, err := reader.ReadTag(context.Background())
	require.ErrorIs(t, err, ErrResponseTimeout)
	assert.ErrorIs(t, err, nfclock.ErrDecodeFailure)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, 1, port.Resets())
}

func TestReader_DrainsTrailingBytes(t *testing.T) {
	t.Parallel()
	long := make([]byte, 0, 40)
	long = append(long, testutil.BuildTagResponse(testutil.TestUID4)...)
	for len(long) < 40 {
		long = append(long, 0xEE)
	}
	port := testutil.NewMockSerialPort(long)
	reader := NewReader(port, fastConfig())

	id, err := reader.ReadTag(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testutil.TestUID4Hex, id)
	assert.Zero(t, port.Buffered())
}

func TestReader_PortErrors(t *testing.T) {
	t.Parallel()
	writeErr := errors.New("unplugged")

	port := testutil.NewMockSerialPort()
	port.WriteErr = writeErr
	_, err := NewReader(port, fastConfig()).ReadTag(context.Background())
	require.ErrorIs(t, err, writeErr)
	assert.NotErrorIs(t, err, nfclock.ErrDecodeFailure)

	port = testutil.NewMockSerialPort()
	port.ReadErr = writeErr
	_, err = NewReader(port, fastConfig()).ReadTag(context.Background())
	require.ErrorIs(t, err, writeErr)
}

func TestReader_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader(testutil.NewMockSerialPort(), fastConfig()).ReadTag(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewReader_Defaults(t *testing.T) {
	t.Parallel()
	r := NewReader(testutil.NewMockSerialPort(), Config{})
	assert.Equal(t, DefaultConfig(), r.config)
}
