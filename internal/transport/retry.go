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

// Package transport provides internal transport utilities
package transport

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRetriesExhausted is returned when every attempt asked to be retried
var ErrRetriesExhausted = errors.New("retries exhausted")

// RetryOperation represents a function that can be retried
// Returns: data, shouldRetry, error
//   - data: the result if successful
//   - shouldRetry: true if the operation should be retried; a non-nil
//     error alongside it is the transient cause
//   - error: with shouldRetry false, a permanent error that stops retries
type RetryOperation[T any] func(ctx context.Context) (T, bool, error)

// RetryConfig configures retry behavior
type RetryConfig struct {
	OnRetry     func(attempt int, cause error)
	Description string
	MaxRetries  int
	RetryDelay  time.Duration
}

// WithRetry runs operation until it succeeds, fails permanently, runs out
// of retries, or ctx ends
func WithRetry[T any](ctx context.Context, config RetryConfig, operation RetryOperation[T]) (T, error) {
	var (
		zero    T
		lastErr error
	)

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		result, shouldRetry, err := operation(ctx)
		if !shouldRetry {
			if err != nil {
				return zero, err
			}
			return result, nil
		}
		lastErr = err

		// If we should retry but we're at max attempts, break
		if attempt >= config.MaxRetries {
			break
		}

		if config.OnRetry != nil {
			config.OnRetry(attempt+1, err)
		}

		if config.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(config.RetryDelay):
			}
		}
	}

	return zero, exhausted(config, lastErr)
}

func exhausted(config RetryConfig, cause error) error {
	desc := config.Description
	if desc == "" {
		desc = "operation"
	}
	if cause == nil {
		return fmt.Errorf("%s: %w after %d attempts", desc, ErrRetriesExhausted, config.MaxRetries+1)
	}
	return fmt.Errorf("%s: %w after %d attempts: %w", desc, ErrRetriesExhausted, config.MaxRetries+1, cause)
}
