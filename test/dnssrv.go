// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package test

import (
	"fmt"
	"net"

	"github.com/miekg/dns"
)

// NewServer fires up an in-process DNS server on an ephemeral localhost UDP
// port, answering with the specified handler. It returns the server's IP
// address and port, plus a shutdown function releasing the server again.
func NewServer(handler dns.Handler) (addr string, port uint16, shutdown func(), err error) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		return "", 0, nil, fmt.Errorf("cannot listen for test DNS queries: %w", err)
	}
	srv := &dns.Server{
		PacketConn: pc,
		Handler:    handler,
	}
	go func() {
		_ = srv.ActivateAndServe()
	}()
	udpaddr := pc.LocalAddr().(*net.UDPAddr)
	return udpaddr.IP.String(), uint16(udpaddr.Port), func() { _ = srv.Shutdown() }, nil
}

// RcodeHandler returns a DNS handler that answers every query with the
// specified response code and an empty answer section.
func RcodeHandler(rcode int) dns.HandlerFunc {
	return func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(r, rcode)
		_ = w.WriteMsg(m)
	}
}

// NewBlackhole opens an ephemeral localhost UDP port that swallows every
// datagram sent to it without ever answering, for testing probe timeouts. It
// returns the blackhole's IP address and port, plus a shutdown function.
func NewBlackhole() (addr string, port uint16, shutdown func(), err error) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		return "", 0, nil, fmt.Errorf("cannot listen for doomed DNS queries: %w", err)
	}
	go func() {
		buf := make([]byte, 512)
		for {
			if _, _, err := pc.ReadFrom(buf); err != nil {
				return
			}
		}
	}()
	return "127.0.0.1", uint16(pc.LocalAddr().(*net.UDPAddr).Port), func() { pc.Close() }, nil
}
