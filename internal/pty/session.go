// Package pty manages the child process running inside a pseudo-terminal.
// It exposes a writer to the child's stdin and a raw reader of its combined
// stdout/stderr, which is handed to the background output pump exactly once.
package pty

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// ErrClosed is returned when writing to a session whose PTY has been closed.
var ErrClosed = errors.New("pty session is closed")

// Options configures the PTY geometry and environment of the child.
type Options struct {
	// Rows is the number of terminal rows (default: 24).
	Rows uint16
	// Cols is the number of terminal columns (default: 80).
	Cols uint16
	// Dir is the working directory for the command.
	Dir string
	// Env is additional environment variables for the command.
	Env []string
}

// DefaultOptions returns the default 80x24 geometry.
func DefaultOptions() *Options {
	return &Options{
		Rows: 24,
		Cols: 80,
	}
}

// Session is a program running inside a PTY. It owns the child process and
// the master side of the PTY; the read end is returned separately by Spawn so
// it can be owned by the output pump while the session stays with the engine.
type Session struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	ptmx   *os.File
	closed bool

	done    chan struct{}
	waitErr error
}

// Spawn launches program with args attached to the slave side of a new PTY
// and returns the session plus the byte reader for the child's output.
func Spawn(program string, args []string, opts *Options) (*Session, io.Reader, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	cmd := exec.Command(program, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	winSize := &pty.Winsize{
		Rows: opts.Rows,
		Cols: opts.Cols,
	}

	ptmx, err := pty.StartWithSize(cmd, winSize)
	if err != nil {
		return nil, nil, fmt.Errorf("spawn %s in pty: %w", program, err)
	}

	s := &Session{
		cmd:  cmd,
		ptmx: ptmx,
		done: make(chan struct{}),
	}

	// Reap the child as soon as it exits so Running() stays accurate even
	// when nobody calls Wait().
	go func() {
		s.waitErr = cmd.Wait()
		close(s.done)
	}()

	return s, ptmx, nil
}

// Write sends data to the child's stdin. The write goes through the PTY line
// discipline, so the child's echo is what makes typed input visible.
func (s *Session) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, err := s.ptmx.Write(data); err != nil {
		return fmt.Errorf("write to pty: %w", err)
	}
	return nil
}

// Running reports whether the child process has not yet exited.
func (s *Session) Running() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the child exits. There is no timeout; callers that need
// a bounded wait must enforce it themselves.
func (s *Session) Wait() error {
	<-s.done
	if s.waitErr != nil {
		return fmt.Errorf("wait for child: %w", s.waitErr)
	}
	return nil
}

// Resize changes the PTY geometry. Best effort; the engine does not depend
// on it.
func (s *Session) Resize(rows, cols uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	size := &pty.Winsize{Rows: rows, Cols: cols}
	if err := pty.Setsize(s.ptmx, size); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	return nil
}

// Close kills the child if it is still running and closes the PTY master.
// Closing the master also unblocks the pump's pending read.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.Running() {
		_ = s.cmd.Process.Kill()
	}
	if err := s.ptmx.Close(); err != nil {
		return fmt.Errorf("close pty: %w", err)
	}
	return nil
}
