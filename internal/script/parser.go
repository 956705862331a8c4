// Package script parses the scriptty scripting language into the command
// sequence the engine executes. One command per line; empty lines and lines
// starting with # are ignored, and inline comments are stripped outside of
// quoted strings.
package script

import (
	"fmt"
	"os"
	"strings"

	"github.com/Dicklesworthstone/scriptty/internal/engine"
)

type parseFunc func(args string) (engine.Command, error)

// registry maps a script keyword to its command parser. Dispatch is a linear
// exact-match scan; with six commands that beats any map housekeeping. To add
// a command, implement engine.Command and append one entry here.
var registry = []struct {
	keyword string
	parse   parseFunc
}{
	{keywordType, parseTypeText},
	{keywordSend, parseSend},
	{keywordShow, parseShow},
	{keywordWait, parseWait},
	{keywordExpect, parseExpect},
	{keywordKey, parseKey},
}

// Parse parses an in-memory script and returns the command sequence.
// Any malformed line aborts parsing with its 1-based line number and text;
// a script is never partially parsed and then executed.
func Parse(src string) ([]engine.Command, error) {
	var cmds []engine.Command
	for i, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = stripInlineComment(line)

		cmd, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %q: %w", i+1, line, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// ParseFile reads a script from disk and delegates to Parse.
func ParseFile(path string) ([]engine.Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	return Parse(string(data))
}

func parseLine(line string) (engine.Command, error) {
	keyword, args, _ := strings.Cut(line, " ")
	for _, entry := range registry {
		if entry.keyword == keyword {
			return entry.parse(args)
		}
	}
	return nil, fmt.Errorf("unknown command: %s", line)
}

// stripInlineComment truncates line at the first # outside a quoted string.
// A backslash escapes the next character, so \" does not toggle quoting.
func stripInlineComment(line string) string {
	inQuotes := false
	escaped := false
	for i, ch := range line {
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			escaped = true
		case '"':
			inQuotes = !inQuotes
		case '#':
			if !inQuotes {
				return strings.TrimSpace(line[:i])
			}
		}
	}
	return line
}
