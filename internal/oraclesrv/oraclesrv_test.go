package oraclesrv

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"
)

func TestServer_AnswersReads(t *testing.T) {
	srv, err := Listen("127.0.0.1:0", Image{0x10: 0x42})
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Start(ctx)

	conn, err := net.DialTimeout("tcp", srv.Addr(), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	var req [8]byte
	binary.BigEndian.PutUint64(req[:], 0x10)
	if _, err := conn.Write(req[:]); err != nil {
		t.Fatal(err)
	}

	var resp [1]byte
	if _, err := conn.Read(resp[:]); err != nil {
		t.Fatal(err)
	}
	if resp[0] != 0x42 {
		t.Fatalf("got %d, want 0x42", resp[0])
	}
}

func TestServer_UnmappedAddressReadsZero(t *testing.T) {
	srv, err := Listen("127.0.0.1:0", Image{})
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Start(ctx)

	conn, err := net.DialTimeout("tcp", srv.Addr(), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	var req [8]byte
	binary.BigEndian.PutUint64(req[:], 0xdeadbeef)
	if _, err := conn.Write(req[:]); err != nil {
		t.Fatal(err)
	}

	var resp [1]byte
	if _, err := conn.Read(resp[:]); err != nil {
		t.Fatal(err)
	}
	if resp[0] != 0 {
		t.Fatalf("got %d, want 0", resp[0])
	}
}
