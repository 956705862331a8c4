package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrTimeout is returned when a pattern wait exceeds its deadline.
var ErrTimeout = errors.New("timed out waiting for pattern")

const (
	// bufferHighWater is the maximum number of bytes the match buffer may
	// hold before the oldest content is dropped.
	bufferHighWater = 10_000
	// bufferTrim is how much of the oldest content is dropped once the
	// high-water mark is exceeded.
	bufferTrim = 5_000

	// pollInterval is how long a pattern wait sleeps between searches.
	pollInterval = 10 * time.Millisecond
)

// Buffer is the rolling text buffer that pattern waits search. It is fed by
// the engine's consumer goroutine and drained by whichever command is
// currently waiting on a pattern. All access goes through the mutex; the
// critical sections never perform I/O.
type Buffer struct {
	mu   sync.Mutex
	text string
}

// Append adds decoded output text and applies the high-water trim.
func (b *Buffer) Append(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.text += s
	if len(b.text) > bufferHighWater {
		b.text = b.text[bufferTrim:]
	}
}

// Len reports the current buffer length.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.text)
}

// WaitForPattern blocks until pattern appears in the buffer as a literal
// substring, or until timeout elapses. On a match everything up to and
// including the first occurrence is removed before returning, so a later
// wait for the same pattern can only match a strictly later occurrence.
//
// The deadline is checked after each search, so the final poll can land up
// to one poll interval past the nominal deadline. That jitter is part of the
// contract; the wait requires no coordination from the writer side.
func (b *Buffer) WaitForPattern(pattern string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		b.mu.Lock()
		if idx := strings.Index(b.text, pattern); idx >= 0 {
			b.text = b.text[idx+len(pattern):]
			b.mu.Unlock()
			return nil
		}
		b.mu.Unlock()

		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w: %q", ErrTimeout, pattern)
		}
		time.Sleep(pollInterval)
	}
}
