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

package udp

import (
	"net"
	"strings"
)

// InterfaceLink reports the link as up when the named interface is up and
// carries a non-loopback unicast address. It satisfies nfclock.LinkMonitor.
type InterfaceLink struct {
	lookup func(name string) (*net.Interface, error)
	name   string
}

// NewInterfaceLink creates a link monitor for the interface called name
func NewInterfaceLink(name string) *InterfaceLink {
	return &InterfaceLink{name: name, lookup: net.InterfaceByName}
}

// Linked samples the interface
func (l *InterfaceLink) Linked() bool {
	iface, err := l.lookup(l.name)
	if err != nil || iface.Flags&net.FlagUp == 0 {
		return false
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return false
	}
	for _, addr := range addrs {
		ip := addrIP(addr)
		if ip != nil && !ip.IsLoopback() && !ip.IsLinkLocalUnicast() {
			return true
		}
	}
	return false
}

// Name returns the monitored interface name
func (l *InterfaceLink) Name() string {
	return l.name
}

func addrIP(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.IPNet:
		return a.IP
	case *net.IPAddr:
		return a.IP
	case *net.UDPAddr:
		return a.IP
	default:
		host, _, _ := strings.Cut(addr.String(), "/")
		return net.ParseIP(host)
	}
}
