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

// Package oraclesrv is a TCP test fixture standing in for the remote
// process transport package talks to: it serves single-byte reads out of
// an in-memory image keyed by address, so transport and the elf/skua
// resolve path can be exercised end-to-end without a real target process.
package oraclesrv

import (
	"context"
	"encoding/binary"
	"io"
	"net"
)

// Image is the backing store a Server answers reads from: a sparse map of
// address to byte. Addresses not present read back as 0, matching
// unmapped-but-zeroed process memory rather than failing the connection.
type Image map[uint64]byte

// connMonitor closes c once done fires, letting Accept/Read unblock on
// server or per-connection shutdown.
func connMonitor(c io.Closer, done <-chan struct{}) {
	<-done
	_ = c.Close()
}

// Server answers the wire protocol transport.TCPOracle speaks: an 8-byte
// big-endian address in, one byte out, per request.
type Server struct {
	listener net.Listener
	image    Image
}

// Listen starts a Server on addr backed by image. The returned Server
// accepts connections only once Start runs, typically in a goroutine.
func Listen(addr string, image Image) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{listener: l, image: image}, nil
}

// Addr returns the bound listen address, useful when Listen was given
// "127.0.0.1:0" to pick an ephemeral port.
func (s *Server) Addr() string { return s.listener.Addr().String() }

// Start runs the accept loop until ctx is done or Close is called.
func (s *Server) Start(ctx context.Context) {
	lc, cancel := context.WithCancel(ctx)
	defer cancel()

	go connMonitor(s.listener, lc.Done())

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.serve(lc, conn)
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	return s.listener.Close()
}

func (s *Server) serve(ctx context.Context, conn net.Conn) {
	cc, cancel := context.WithCancel(ctx)
	defer cancel()

	go connMonitor(conn, cc.Done())

	var req [8]byte
	for {
		if _, err := io.ReadFull(conn, req[:]); err != nil {
			return
		}
		addr := binary.BigEndian.Uint64(req[:])
		b := s.image[addr]
		if _, err := conn.Write([]byte{b}); err != nil {
			return
		}
	}
}
