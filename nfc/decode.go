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
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ZaparooProject/go-nfclock"
	"github.com/ZaparooProject/go-nfclock/internal/frame"
)

// Decode failures. Each one wraps nfclock.ErrDecodeFailure.
var (
	ErrResponseTimeout  = fmt.Errorf("%w: no response from reader", nfclock.ErrDecodeFailure)
	ErrReaderStatus     = fmt.Errorf("%w: reader reported a fault", nfclock.ErrDecodeFailure)
	ErrShortFrame       = fmt.Errorf("%w: frame too short", nfclock.ErrDecodeFailure)
	ErrChecksumMismatch = fmt.Errorf("%w: checksum mismatch", nfclock.ErrDecodeFailure)
)

// StatusError carries the non-zero status byte a reader answered with
type StatusError struct {
	Status byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("reader status 0x%02X", e.Status)
}

// Is makes StatusError match ErrReaderStatus
func (e *StatusError) Is(target error) bool {
	return errors.Is(ErrReaderStatus, target)
}

// Decode extracts the tag identifier from a reader response.
//
// Byte 1 declares the index of the last identifier byte, byte 3 is the
// reader status and identifier bytes start at index 4. At most four
// identifier bytes are taken; they are returned as uppercase hex, high
// nibble first. With verifyChecksum the last byte must be the XOR of all
// preceding bytes and is never part of the identifier.
func Decode(frm []byte, verifyChecksum bool) (string, error) {
	if len(frm) < frame.MinResponseLength {
		return "", fmt.Errorf("%w: %d bytes", ErrShortFrame, len(frm))
	}

	body := frm
	if verifyChecksum {
		if !frame.ValidateXORChecksum(frm) {
			return "", fmt.Errorf("%w: got 0x%02X, want 0x%02X",
				ErrChecksumMismatch, frm[len(frm)-1], frame.XORChecksum(frm[:len(frm)-1]))
		}
		body = frm[:len(frm)-1]
	}

	if status := frm[frame.StatusIndex]; status != frame.StatusOK {
		return "", &StatusError{Status: status}
	}

	last := min(int(frm[frame.LengthIndex]), frame.PayloadLimit)
	if last < frame.PayloadStart {
		return "", fmt.Errorf("%w: declared length %d leaves no identifier", ErrShortFrame, frm[frame.LengthIndex])
	}
	if last >= len(body) {
		return "", fmt.Errorf("%w: declared length %d exceeds %d received bytes",
			ErrShortFrame, frm[frame.LengthIndex], len(body))
	}

	return strings.ToUpper(hex.EncodeToString(body[frame.PayloadStart : last+1])), nil
}
