// Copyright 2017 Denis Bernard <db047h@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package transport provides a reference elf.Oracle backed by a TCP
// connection to a remote agent: an 8-byte big-endian address goes out, a
// single byte comes back.
package transport

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/pkg/errors"

	"github.com/endeav0r/skua/elf"
)

// TCPOracle implements elf.Oracle over a persistent TCP connection. One
// request/response round trip per ReadByte call; there is no pipelining or
// batching, matching the single-byte-oracle contract the rest of this
// module is built on.
type TCPOracle struct {
	conn   net.Conn
	endian elf.Endian
	log    *slog.Logger

	dialTimeout time.Duration
	readTimeout time.Duration
}

// Option configures a TCPOracle at Dial time.
type Option func(*TCPOracle)

// WithDialTimeout bounds how long Dial waits to establish the connection.
func WithDialTimeout(d time.Duration) Option {
	return func(o *TCPOracle) { o.dialTimeout = d }
}

// WithReadTimeout bounds how long a single ReadByte round trip may take.
// Zero (the default) disables the deadline.
func WithReadTimeout(d time.Duration) Option {
	return func(o *TCPOracle) { o.readTimeout = d }
}

// WithLogger attaches a logger used to report connection-level events.
// Individual ReadByte failures are returned to the caller, not logged here,
// to avoid double-reporting in a tight resolve loop.
func WithLogger(l *slog.Logger) Option {
	return func(o *TCPOracle) { o.log = l }
}

// Dial connects to addr and returns a TCPOracle reporting endian for all
// subsequent multi-byte composition.
func Dial(ctx context.Context, addr string, endian elf.Endian, opts ...Option) (*TCPOracle, error) {
	o := &TCPOracle{endian: endian, log: slog.Default(), dialTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(o)
	}

	d := net.Dialer{Timeout: o.dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dial oracle agent at %s", addr)
	}
	o.conn = conn
	o.log.Info("oracle connected", "addr", addr, "endian", endian.String())
	return o, nil
}

// Endian reports the byte order configured at Dial time.
func (o *TCPOracle) Endian() elf.Endian { return o.endian }

// ReadByte sends addr as an 8-byte big-endian value and returns the single
// byte the agent responds with.
func (o *TCPOracle) ReadByte(addr uint64) (byte, error) {
	if o.readTimeout > 0 {
		if err := o.conn.SetDeadline(time.Now().Add(o.readTimeout)); err != nil {
			return 0, errors.Wrap(err, "set read deadline")
		}
	}

	var req [8]byte
	binary.BigEndian.PutUint64(req[:], addr)
	if _, err := o.conn.Write(req[:]); err != nil {
		return 0, errors.Wrapf(err, "write address 0x%x", addr)
	}

	var resp [1]byte
	if _, err := io.ReadFull(o.conn, resp[:]); err != nil {
		return 0, errors.Wrapf(err, "read byte for address 0x%x", addr)
	}
	return resp[0], nil
}

// Close closes the underlying connection.
func (o *TCPOracle) Close() error {
	return o.conn.Close()
}
