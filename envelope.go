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

package nfclock

import (
	"bytes"
	"encoding/json"
)

// Wire field names. They are a stable contract with deployed clients.
const (
	fieldKey    = "key"
	fieldSecret = "llave"
	fieldData   = "data"
)

// Envelope is a parsed but not yet authenticated command request
type Envelope struct {
	fields map[string]json.RawMessage
	// Secret is the presented credential. A JSON number is accepted and
	// kept as its literal text since default secrets are decimal chip ids.
	Secret string
}

// ParseEnvelope parses payload as a JSON object and extracts the secret.
// Anything that is not a JSON object is ErrMalformed.
func ParseEnvelope(payload []byte) (*Envelope, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, malformedf("invalid JSON: %v", err)
	}
	if fields == nil {
		return nil, malformedf("request is not an object")
	}
	return &Envelope{
		fields: fields,
		Secret: secretText(fields[fieldSecret]),
	}, nil
}

// secretText renders the llave field. Missing, null, boolean, object and
// array values all read as the empty string.
func secretText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err == nil {
		return n.String()
	}
	return ""
}

// Key returns the command name, or "" when absent or not a string
func (e *Envelope) Key() string {
	var key string
	if err := json.Unmarshal(e.fields[fieldKey], &key); err != nil {
		return ""
	}
	return key
}

// Command validates the command name and its payload and returns the
// matching Command variant.
func (e *Envelope) Command() (Command, error) {
	raw, ok := e.fields[fieldKey]
	if !ok {
		return nil, malformedf("missing %q", fieldKey)
	}
	var key string
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, malformedf("%q is not a string", fieldKey)
	}
	if key == "" {
		return nil, malformedf("empty %q", fieldKey)
	}

	build, ok := commandBuilders[key]
	if !ok {
		return nil, malformedf("unknown command %q", key)
	}
	return build(e)
}

// dataFields extracts the named string fields from the data object. Every
// name is required.
func (e *Envelope) dataFields(names ...string) (map[string]string, error) {
	raw, ok := e.fields[fieldData]
	if !ok {
		return nil, malformedf("missing %q", fieldData)
	}
	var data map[string]json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil || data == nil {
		return nil, malformedf("%q is not an object", fieldData)
	}

	out := make(map[string]string, len(names))
	for _, name := range names {
		value, ok := data[name]
		if !ok {
			return nil, malformedf("missing %s.%s", fieldData, name)
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, malformedf("%s.%s is not a string", fieldData, name)
		}
		out[name] = s
	}
	return out, nil
}
