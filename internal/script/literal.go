package script

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseDuration parses the script duration grammar: an integer suffixed
// "ms", or a possibly fractional number suffixed "s".
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if msStr, ok := strings.CutSuffix(s, "ms"); ok {
		ms, err := strconv.ParseUint(strings.TrimSpace(msStr), 10, 63)
		if err != nil {
			return 0, fmt.Errorf("invalid milliseconds value %q", msStr)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	if secStr, ok := strings.CutSuffix(s, "s"); ok {
		secs, err := strconv.ParseFloat(strings.TrimSpace(secStr), 64)
		if err != nil || secs < 0 {
			return 0, fmt.Errorf("invalid seconds value %q", secStr)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	return 0, fmt.Errorf("duration must end with 's' or 'ms', got %q", s)
}

// parseQuotedString parses a double-quoted literal, unescaping \n, \t, \",
// and \\ in that order.
func parseQuotedString(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, `"`) {
		return "", fmt.Errorf("expected opening quote")
	}
	if len(s) < 2 || !strings.HasSuffix(s, `"`) {
		return "", fmt.Errorf("expected closing quote")
	}
	body := s[1 : len(s)-1]
	body = strings.ReplaceAll(body, `\n`, "\n")
	body = strings.ReplaceAll(body, `\t`, "\t")
	body = strings.ReplaceAll(body, `\"`, `"`)
	body = strings.ReplaceAll(body, `\\`, `\`)
	return body, nil
}

// splitQuoted splits args into a leading quoted literal and the trailing
// remainder, scanning for the closing quote while honoring backslash
// escapes. Used by commands that take arguments after the string.
func splitQuoted(args string) (quoted, rest string, err error) {
	args = strings.TrimSpace(args)
	if !strings.HasPrefix(args, `"`) {
		return "", "", fmt.Errorf("expected quoted string")
	}

	escaped := false
	for i := 1; i < len(args); i++ {
		if escaped {
			escaped = false
			continue
		}
		switch args[i] {
		case '\\':
			escaped = true
		case '"':
			return args[:i+1], strings.TrimSpace(args[i+1:]), nil
		}
	}
	return "", "", fmt.Errorf("unclosed quote")
}
