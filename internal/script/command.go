package script

import (
	"context"
	"time"
)

// Script keywords, in registry order.
const (
	keywordType   = "type"
	keywordSend   = "send"
	keywordShow   = "show"
	keywordWait   = "wait"
	keywordExpect = "expect"
	keywordKey    = "key"
)

// sleep pauses for d, returning early with the context error if the run is
// cancelled. Sleeps are the only suspension points besides pattern waits.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
