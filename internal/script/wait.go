package script

import (
	"context"
	"time"

	"github.com/Dicklesworthstone/scriptty/internal/engine"
)

// Wait pauses execution for a fixed duration. No I/O.
type Wait struct {
	Duration time.Duration
}

func parseWait(args string) (engine.Command, error) {
	d, err := parseDuration(args)
	if err != nil {
		return nil, err
	}
	return &Wait{Duration: d}, nil
}

func (c *Wait) Name() string { return keywordWait }

func (c *Wait) Execute(ctx context.Context, _ *engine.Context) error {
	return sleep(ctx, c.Duration)
}
