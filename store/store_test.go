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

package store

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZaparooProject/go-nfclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleConfig = nfclock.DeviceConfig{
	SSID:     "AP_OFICINA",
	Password: "B1n4r1uM",
	Secret:   "2803269",
	TagID:    "29F4AD71",
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()
	region := NewMemoryRegion(DefaultCapacity)
	s := New(region)

	require.NoError(t, s.Save(sampleConfig))
	assert.Equal(t, 1, region.Commits())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleConfig, got)
}

func TestStore_SaveLayout(t *testing.T) {
	t.Parallel()
	region := NewMemoryRegion(64)
	s := New(region)
	cfg := nfclock.DeviceConfig{Secret: "1"}

	require.NoError(t, s.Save(cfg))

	want, err := Encode(cfg)
	require.NoError(t, err)
	data := region.Bytes()
	assert.Equal(t, want, data[:len(want)])
	assert.Equal(t, byte(0), data[len(want)])
	// Erased bytes after the terminator are untouched
	assert.Equal(t, bytes.Repeat([]byte{Erased}, 64-len(want)-1), data[len(want)+1:])
}

func TestEncode_FieldOrder(t *testing.T) {
	t.Parallel()
	out, err := Encode(sampleConfig)
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "{\n"))
	ssid := strings.Index(text, `"ssid"`)
	pass := strings.Index(text, `"pass"`)
	llave := strings.Index(text, `"llave"`)
	nfc := strings.Index(text, `"nfc"`)
	assert.Less(t, ssid, pass)
	assert.Less(t, pass, llave)
	assert.Less(t, llave, nfc)
	assert.NotContains(t, text, "\x00")
}

func TestStore_ShorterRecordLeavesStaleTail(t *testing.T) {
	t.Parallel()
	region := NewMemoryRegion(DefaultCapacity)
	s := New(region)

	long := sampleConfig
	long.SSID = strings.Repeat("x", 100)
	require.NoError(t, s.Save(long))
	require.NoError(t, s.Save(sampleConfig))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleConfig, got)

	// Bytes of the older, longer record remain after the new terminator
	encoded, err := Encode(sampleConfig)
	require.NoError(t, err)
	assert.Equal(t, byte('x'), region.Bytes()[len(encoded)+5])
}

func TestStore_CapacityExceeded(t *testing.T) {
	t.Parallel()
	encoded, err := Encode(sampleConfig)
	require.NoError(t, err)

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "exact fit with terminator", size: len(encoded) + 1},
		{name: "one byte short", size: len(encoded), wantErr: true},
		{name: "tiny region", size: 8, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			region := NewMemoryRegion(tt.size)
			err := New(region).Save(sampleConfig)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, nfclock.ErrCapacityExceeded)
			assert.Equal(t, bytes.Repeat([]byte{Erased}, tt.size), region.Bytes())
			assert.Zero(t, region.Commits())
		})
	}
}

func TestStore_LoadNoConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		want   error
		name   string
		preset []byte
	}{
		{name: "erased region", want: ErrMarkerNotFound},
		{name: "zeroed region", preset: make([]byte, 32), want: ErrMarkerNotFound},
		{name: "unterminated record", preset: []byte(`{"ssid":"a"`), want: ErrUnterminated},
		{name: "not json", preset: []byte("{ssid}\x00"), want: ErrRecordDecode},
		{name: "wrong field type", preset: []byte(`{"ssid":1}` + "\x00"), want: ErrRecordDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			region := NewMemoryRegion(32)
			region.Preset(0, tt.preset)

			_, err := New(region).Load()
			require.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, nfclock.ErrNoConfig)
			assert.True(t, IsNoConfig(err))
		})
	}
}

func TestStore_LoadSkipsLeadingGarbage(t *testing.T) {
	t.Parallel()
	region := NewMemoryRegion(64)
	region.Preset(0, []byte("\x00\x00zz"))
	region.Preset(4, []byte(`{"llave":"k","nfc":"AB"}`+"\x00"))

	got, err := New(region).Load()
	require.NoError(t, err)
	assert.Equal(t, nfclock.DeviceConfig{Secret: "k", TagID: "AB"}, got)
}

func TestStore_SaveFaults(t *testing.T) {
	t.Parallel()
	fault := errors.New("cell worn out")

	region := NewMemoryRegion(DefaultCapacity)
	region.InjectWriteFault(3, fault)
	err := New(region).Save(sampleConfig)
	require.ErrorIs(t, err, fault)
	var storeErr *nfclock.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "write", storeErr.Op)
	assert.Equal(t, 3, storeErr.Addr)
	assert.Zero(t, region.Commits())

	region = NewMemoryRegion(DefaultCapacity)
	region.InjectCommitFault(fault)
	err = New(region).Save(sampleConfig)
	require.ErrorIs(t, err, fault)
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "commit", storeErr.Op)
}

func TestFileRegion_Persistence(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "eeprom.bin")

	region, err := OpenFileRegion(path, DefaultCapacity)
	require.NoError(t, err)
	assert.Equal(t, DefaultCapacity, region.Size())

	b, err := region.Read(0)
	require.NoError(t, err)
	assert.Equal(t, Erased, b)

	_, err = New(region).Load()
	require.ErrorIs(t, err, nfclock.ErrNoConfig)

	require.NoError(t, New(region).Save(sampleConfig))
	require.NoError(t, region.Close())

	reopened, err := OpenFileRegion(path, DefaultCapacity)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := New(reopened).Load()
	require.NoError(t, err)
	assert.Equal(t, sampleConfig, got)
}

func TestFileRegion_Bounds(t *testing.T) {
	t.Parallel()
	region, err := OpenFileRegion(filepath.Join(t.TempDir(), "eeprom.bin"), 16)
	require.NoError(t, err)

	_, err = region.Read(16)
	require.ErrorIs(t, err, ErrAddressOutOfRange)
	require.ErrorIs(t, region.Write(-1, 0), ErrAddressOutOfRange)

	require.NoError(t, region.Close())
	require.NoError(t, region.Close())
	_, err = region.Read(0)
	require.ErrorIs(t, err, ErrRegionClosed)

	_, err = OpenFileRegion(filepath.Join(t.TempDir(), "zero.bin"), 0)
	require.Error(t, err)
}
