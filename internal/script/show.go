package script

import (
	"context"

	"github.com/Dicklesworthstone/scriptty/internal/engine"
)

// Show writes an annotation straight to the output sink. It never touches
// the PTY, so the child is unaware of it.
type Show struct {
	Data []byte
}

// NewShow builds a Show command. A newline is appended so each annotation
// lands on its own line.
func NewShow(text string) *Show {
	return &Show{Data: append([]byte(text), '\n')}
}

func parseShow(args string) (engine.Command, error) {
	text, err := parseQuotedString(args)
	if err != nil {
		return nil, err
	}
	return NewShow(text), nil
}

func (c *Show) Name() string { return keywordShow }

func (c *Show) Execute(_ context.Context, ec *engine.Context) error {
	ec.Emit(c.Data)
	return nil
}
