package pty

import (
	"bytes"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// slowReader returns its payload in fixed-size pieces, one per read call.
type slowReader struct {
	data  []byte
	piece int
}

func (r *slowReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.piece
	if n > len(r.data) || n > len(p) {
		n = min(len(r.data), len(p))
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

func TestStartPump_ForwardsChunksVerbatim(t *testing.T) {
	payload := []byte("one\ntwo\nthree\n")
	out := StartPump(&slowReader{data: append([]byte(nil), payload...), piece: 4})

	var got bytes.Buffer
	for chunk := range out {
		got.Write(chunk)
	}
	if !bytes.Equal(got.Bytes(), payload) {
		t.Fatalf("pump output = %q, want %q", got.Bytes(), payload)
	}
}

func TestStartPump_ClosesOnEOF(t *testing.T) {
	out := StartPump(strings.NewReader(""))

	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("received chunk from empty reader")
		}
	case <-time.After(time.Second):
		t.Fatal("pump channel not closed on EOF")
	}
}

func TestStartPump_ClosesOnError(t *testing.T) {
	out := StartPump(io.MultiReader(strings.NewReader("tail"), errReader{}))

	var got bytes.Buffer
	for chunk := range out {
		got.Write(chunk)
	}
	if got.String() != "tail" {
		t.Fatalf("pump output = %q, want %q", got.String(), "tail")
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

// countingReader emits total one-byte chunks and counts every read call.
type countingReader struct {
	total int
	reads atomic.Int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n := int(r.reads.Add(1))
	if n > r.total {
		return 0, io.EOF
	}
	p[0] = byte(n)
	return 1, nil
}

func TestStartPump_ReadsAheadOfConsumer(t *testing.T) {
	const chunks = 5000
	r := &countingReader{total: chunks}
	out := StartPump(r)

	// Nothing is consuming yet; the pump must still drain the reader.
	deadline := time.Now().Add(5 * time.Second)
	for r.reads.Load() <= chunks {
		if time.Now().After(deadline) {
			t.Fatalf("pump stalled after %d of %d reads with no consumer", r.reads.Load(), chunks)
		}
		time.Sleep(time.Millisecond)
	}

	var got []byte
	for chunk := range out {
		got = append(got, chunk...)
	}
	if len(got) != chunks {
		t.Fatalf("drained %d bytes, want %d", len(got), chunks)
	}
	for i, b := range got {
		if b != byte(i+1) {
			t.Fatalf("byte %d = %#x, want %#x", i, b, byte(i+1))
		}
	}
}
