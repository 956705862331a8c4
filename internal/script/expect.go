package script

import (
	"context"
	"time"

	"github.com/Dicklesworthstone/scriptty/internal/engine"
)

// DefaultExpectTimeout applies when an expect line carries no timeout.
const DefaultExpectTimeout = 5 * time.Second

// Expect blocks until Pattern appears in the child's output as a literal
// substring, or fails once Timeout elapses. A successful match consumes the
// buffer through the occurrence, so the next Expect for the same pattern can
// only match a strictly later one.
type Expect struct {
	Pattern string
	Timeout time.Duration

	// TimeoutSet records whether the script line carried an explicit
	// timeout, so configured defaults only fill in the implicit one.
	TimeoutSet bool
}

// NewExpect builds an Expect command with the default timeout.
func NewExpect(pattern string) *Expect {
	return &Expect{Pattern: pattern, Timeout: DefaultExpectTimeout}
}

func parseExpect(args string) (engine.Command, error) {
	quoted, rest, err := splitQuoted(args)
	if err != nil {
		return nil, err
	}
	pattern, err := parseQuotedString(quoted)
	if err != nil {
		return nil, err
	}

	cmd := NewExpect(pattern)
	if rest != "" {
		timeout, err := parseDuration(rest)
		if err != nil {
			return nil, err
		}
		cmd.Timeout = timeout
		cmd.TimeoutSet = true
	}
	return cmd, nil
}

func (c *Expect) Name() string { return keywordExpect }

func (c *Expect) Execute(_ context.Context, ec *engine.Context) error {
	return ec.WaitForPattern(c.Pattern, c.Timeout)
}
