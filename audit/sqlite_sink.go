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

package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-nfclock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// timeLayout is fixed width so that text order is time order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schemaAccessEvents = `
CREATE TABLE IF NOT EXISTS access_events (
    id TEXT PRIMARY KEY,
    occurred_at TEXT NOT NULL,
    device TEXT NOT NULL,
    source TEXT NOT NULL,
    command TEXT,
    tag_id TEXT,
    reason TEXT,
    granted BOOLEAN NOT NULL
);
`

const schemaAccessEventsIndex = `
CREATE INDEX IF NOT EXISTS access_events_occurred_at ON access_events (occurred_at);
`

// OpenSQLite opens or creates the event database at path and ensures the
// schema exists
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// One writer: the control loop
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	for i, stmt := range []string{schemaAccessEvents, schemaAccessEventsIndex} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// SQLiteSink appends events to the access_events table
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink creates a sink over an open database
func NewSQLiteSink(db *sql.DB) *SQLiteSink {
	return &SQLiteSink{db: db}
}

// Record inserts ev. A missing ID or timestamp is filled in.
func (s *SQLiteSink) Record(ctx context.Context, ev nfclock.AccessEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO access_events (id, occurred_at, device, source, command, tag_id, reason, granted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		ev.ID,
		ev.At.UTC().Format(timeLayout),
		ev.Device,
		string(ev.Source),
		nullable(ev.Command),
		nullable(ev.TagID),
		nullable(ev.Reason),
		ev.Granted,
	)
	if err != nil {
		return fmt.Errorf("insert access event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first
func (s *SQLiteSink) Recent(ctx context.Context, limit int) ([]nfclock.AccessEvent, error) {
	if limit <= 0 {
		limit = DefaultMemoryCapacity
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, occurred_at, device, source, command, tag_id, reason, granted FROM access_events ORDER BY occurred_at DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("query access events: %w", err)
	}
	defer rows.Close()

	out := make([]nfclock.AccessEvent, 0, limit)
	for rows.Next() {
		var (
			ev                     nfclock.AccessEvent
			at, source             string
			command, tagID, reason sql.NullString
		)
		if err := rows.Scan(&ev.ID, &at, &ev.Device, &source, &command, &tagID, &reason, &ev.Granted); err != nil {
			return nil, fmt.Errorf("scan access event: %w", err)
		}
		ev.At, err = time.Parse(timeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("parse occurred_at %q: %w", at, err)
		}
		ev.Source = nfclock.EventSource(source)
		ev.Command = command.String
		ev.TagID = tagID.String
		ev.Reason = reason.String
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access events: %w", err)
	}
	return out, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
