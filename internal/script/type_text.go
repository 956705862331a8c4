package script

import (
	"context"
	"math/rand"
	"time"

	"github.com/Dicklesworthstone/scriptty/internal/engine"
)

// Default per-character typing delays. The spread is what makes typed input
// look human in a recorded demo.
const (
	DefaultMinDelay = 50 * time.Millisecond
	DefaultMaxDelay = 150 * time.Millisecond
)

// settleAfterType is the pause after the trailing newline so the child's
// echo lands before the next command runs.
const settleAfterType = 100 * time.Millisecond

// TypeText simulates typing: each character is written to the PTY followed
// by a uniformly random delay in [MinDelay, MaxDelay], then the line is
// submitted with a newline. The command produces no sink output of its own;
// visibility comes solely from the child's PTY echo, so every character
// appears exactly once.
type TypeText struct {
	Text     string
	MinDelay time.Duration
	MaxDelay time.Duration
}

// NewTypeText builds a TypeText command with the default 50-150ms timing.
func NewTypeText(text string) *TypeText {
	return &TypeText{
		Text:     text,
		MinDelay: DefaultMinDelay,
		MaxDelay: DefaultMaxDelay,
	}
}

func parseTypeText(args string) (engine.Command, error) {
	text, err := parseQuotedString(args)
	if err != nil {
		return nil, err
	}
	return NewTypeText(text), nil
}

func (c *TypeText) Name() string { return keywordType }

func (c *TypeText) Execute(ctx context.Context, ec *engine.Context) error {
	for _, r := range c.Text {
		if err := ec.WriteToPTY([]byte(string(r))); err != nil {
			return err
		}
		if err := sleep(ctx, c.delay()); err != nil {
			return err
		}
	}

	// Hold briefly on the completed line before submitting it.
	if err := sleep(ctx, 2*c.MaxDelay); err != nil {
		return err
	}
	if err := ec.WriteToPTY([]byte("\n")); err != nil {
		return err
	}
	return sleep(ctx, settleAfterType)
}

func (c *TypeText) delay() time.Duration {
	if c.MaxDelay <= c.MinDelay {
		return c.MinDelay
	}
	return c.MinDelay + time.Duration(rand.Int63n(int64(c.MaxDelay-c.MinDelay)+1))
}
