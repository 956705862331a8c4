package script

import (
	"context"
	"time"

	"github.com/Dicklesworthstone/scriptty/internal/engine"
)

// settleAfterSend gives the child a moment to process the input before the
// next command runs.
const settleAfterSend = 50 * time.Millisecond

// Send writes text plus a trailing newline to the PTY in a single call,
// without any typing simulation. Like TypeText it relies on the child's
// echo for visibility.
type Send struct {
	Data []byte
}

// NewSend builds a Send command. A newline is appended so the child
// receives a complete line.
func NewSend(text string) *Send {
	return &Send{Data: append([]byte(text), '\n')}
}

func parseSend(args string) (engine.Command, error) {
	text, err := parseQuotedString(args)
	if err != nil {
		return nil, err
	}
	return NewSend(text), nil
}

func (c *Send) Name() string { return keywordSend }

func (c *Send) Execute(ctx context.Context, ec *engine.Context) error {
	if err := ec.WriteToPTY(c.Data); err != nil {
		return err
	}
	return sleep(ctx, settleAfterSend)
}
