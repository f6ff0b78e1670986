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
	"encoding/json"
	"errors"
)

// Response status values
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Response messages. Deployed clients match on these strings.
const (
	MessageWiFiSaved       = "Configuraciones WiFi recibidas"
	MessageConfigSaved     = "Configuraciones recibidas"
	MessageSecretSaved     = "Llave actualizada"
	MessageTagSaved        = "Tag NFC actualizado"
	MessageUnlock          = "Abriendo cerradura"
	MessageErase           = "Solicitud de borrado recibida"
	MessageProcessingError = "Error al procesar informacion"
	MessageAuthError       = "Error de autenticacion"
	MessageStoreError      = "Error al guardar configuracion"
)

// Response is the reply envelope. Exactly one of Message or Data is set.
type Response struct {
	Data    *DeviceConfig `json:"data,omitempty"`
	Status  string        `json:"response"`
	Message string        `json:"message,omitempty"`
}

// MarshalJSON writes "response" first, then "message" or "data"
func (r Response) MarshalJSON() ([]byte, error) {
	type wire struct {
		Status  string        `json:"response"`
		Message string        `json:"message,omitempty"`
		Data    *DeviceConfig `json:"data,omitempty"`
	}
	return json.Marshal(wire{Status: r.Status, Message: r.Message, Data: r.Data})
}

// OK reports whether the response is a success
func (r Response) OK() bool {
	return r.Status == StatusOK
}

func okMessage(message string) Response {
	return Response{Status: StatusOK, Message: message}
}

func okData(cfg DeviceConfig) Response {
	return Response{Status: StatusOK, Data: &cfg}
}

// errorResponse maps a dispatcher error onto its wire message
func errorResponse(err error) Response {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return Response{Status: StatusError, Message: MessageAuthError}
	case errors.Is(err, ErrPersistFailed):
		return Response{Status: StatusError, Message: MessageStoreError}
	default:
		return Response{Status: StatusError, Message: MessageProcessingError}
	}
}
