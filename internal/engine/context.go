package engine

import "time"

// Sink receives every PTY-originated output chunk and every annotation, in
// the order those events occur. It is called, never reassigned, so no
// locking is needed around the callback itself. A sink that blocks stalls
// the consumer and lets the pump queue grow; there is no backpressure.
type Sink func(data []byte)

// PTYWriter is the write half of the spawned session as commands see it.
type PTYWriter interface {
	Write(data []byte) error
}

// Context is the shared handle commands operate on: the PTY writer, the
// rolling match buffer, and the output sink. It is owned by the engine for
// the duration of one run; commands borrow it and never outlive the engine.
type Context struct {
	pty    PTYWriter
	buffer *Buffer
	sink   Sink
}

// NewContext assembles a context from its parts. The engine builds its own
// context; this exists for command tests and embedders that fake the PTY.
func NewContext(w PTYWriter, buffer *Buffer, sink Sink) *Context {
	return &Context{pty: w, buffer: buffer, sink: sink}
}

// WriteToPTY sends raw bytes to the child's stdin. A failed write is fatal
// to the run: a half-alive child cannot usefully continue.
func (c *Context) WriteToPTY(data []byte) error {
	return c.pty.Write(data)
}

// Emit passes bytes straight to the output sink without touching the PTY.
func (c *Context) Emit(data []byte) {
	c.sink(data)
}

// WaitForPattern blocks until pattern appears in the child's output or
// timeout elapses. On success the matched occurrence and everything before
// it is consumed from the buffer.
func (c *Context) WaitForPattern(pattern string, timeout time.Duration) error {
	return c.buffer.WaitForPattern(pattern, timeout)
}
