// Package engine executes parsed script commands against a program running
// in a PTY. It owns the spawned session, the consumer that drains the output
// pump into the sink and the match buffer, and the strictly sequential
// command loop.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Dicklesworthstone/scriptty/internal/pty"
)

// defaultGrace is how long the engine lingers after the last command so
// trailing PTY output can flush through the sink. It is a grace period, not
// a guarantee that every last byte arrives.
const defaultGrace = 300 * time.Millisecond

// Command is one unit of script work. Commands are parsed once, immutable,
// and executed exactly once, strictly one at a time.
type Command interface {
	// Name returns the script keyword this command was parsed from.
	Name() string

	// Execute runs the command against the shared engine context. It may
	// suspend on sleeps or pattern waits; ctx cancellation is honored at
	// those suspension points.
	Execute(ctx context.Context, ec *Context) error
}

// Options configures a spawned engine.
type Options struct {
	// Sink receives every output chunk and annotation. Defaults to stdout.
	Sink Sink

	// Logger for lifecycle events. Defaults to slog.Default(). The hot
	// byte path is never logged.
	Logger *slog.Logger

	// Grace is the trailing flush period after the last command.
	// Defaults to 300ms.
	Grace time.Duration

	// Rows and Cols set the PTY geometry. Defaults to 24x80.
	Rows uint16
	Cols uint16

	// Dir is the child's working directory.
	Dir string

	// Env is additional environment variables for the child.
	Env []string
}

func (o *Options) withDefaults() *Options {
	out := &Options{}
	if o != nil {
		*out = *o
	}
	if out.Sink == nil {
		out.Sink = func(data []byte) {
			_, _ = os.Stdout.Write(data)
		}
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	if out.Grace == 0 {
		out.Grace = defaultGrace
	}
	if out.Rows == 0 {
		out.Rows = 24
	}
	if out.Cols == 0 {
		out.Cols = 80
	}
	return out
}

// Engine runs command sequences against one live PTY session.
type Engine struct {
	ctx     *Context
	session *pty.Session
	logger  *slog.Logger
	grace   time.Duration
	done    chan struct{}
}

// Spawn launches program with args in a new PTY, starts the output pump and
// its consumer, and returns an engine ready to execute commands.
func Spawn(program string, args []string, opts *Options) (*Engine, error) {
	opts = opts.withDefaults()

	session, reader, err := pty.Spawn(program, args, &pty.Options{
		Rows: opts.Rows,
		Cols: opts.Cols,
		Dir:  opts.Dir,
		Env:  opts.Env,
	})
	if err != nil {
		return nil, err
	}

	e := New(session, pty.StartPump(reader), opts)
	e.session = session
	return e, nil
}

// New wires an engine around an already-running write handle and chunk
// stream. Spawn is the normal entry point; New exists so the consumer and
// command loop can be driven without a real PTY.
func New(w PTYWriter, chunks <-chan []byte, opts *Options) *Engine {
	opts = opts.withDefaults()

	e := &Engine{
		ctx: &Context{
			pty:    w,
			buffer: &Buffer{},
			sink:   opts.Sink,
		},
		logger: opts.Logger,
		grace:  opts.Grace,
		done:   make(chan struct{}),
	}

	// The consumer is the single place PTY-originated bytes reach the
	// sink. The lock is held for the append only, never while calling out.
	go func() {
		defer close(e.done)
		for chunk := range chunks {
			e.ctx.sink(chunk)
			e.ctx.buffer.Append(strings.ToValidUTF8(string(chunk), "�"))
		}
		e.logger.Debug("output pump drained")
	}()

	return e
}

// Execute runs commands strictly in order against the shared context,
// stopping at the first error. After the last command it waits out the
// trailing grace period so late output can flush through the sink.
func (e *Engine) Execute(ctx context.Context, cmds []Command) error {
	for _, cmd := range cmds {
		if err := cmd.Execute(ctx, e.ctx); err != nil {
			return fmt.Errorf("%s: %w", cmd.Name(), err)
		}
	}

	select {
	case <-time.After(e.grace):
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Wait blocks until the child process exits.
func (e *Engine) Wait() error {
	if e.session == nil {
		return nil
	}
	return e.session.Wait()
}

// Close kills the child if needed and releases the PTY. The consumer
// goroutine ends once the pump observes the closed master.
func (e *Engine) Close() error {
	if e.session == nil {
		return nil
	}
	return e.session.Close()
}
