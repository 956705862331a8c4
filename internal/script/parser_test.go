package script

import (
	"strings"
	"testing"
	"time"
)

func TestParse_AllCommands(t *testing.T) {
	cmds, err := Parse("wait 500ms\ntype \"cmd\"\nsend \"instant\"\nexpect \"out\"\nshow \"note\"\nkey Enter\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(cmds) != 6 {
		t.Fatalf("Parse() returned %d commands, want 6", len(cmds))
	}
	want := []string{"wait", "type", "send", "expect", "show", "key"}
	for i, name := range want {
		if cmds[i].Name() != name {
			t.Errorf("cmds[%d].Name() = %q, want %q", i, cmds[i].Name(), name)
		}
	}
}

func TestParse_SkipsEmptyAndCommentLines(t *testing.T) {
	cmds, err := Parse("\n# header\n\nwait 1s\n\n# trailing\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(cmds) != 1 {
		t.Fatalf("Parse() returned %d commands, want 1", len(cmds))
	}
}

func TestParse_UnknownKeywordNamesLine(t *testing.T) {
	_, err := Parse("wait 1s\nfrobnicate \"x\"\n")
	if err == nil {
		t.Fatal("Parse() error = nil, want unknown command error")
	}
	if !strings.Contains(err.Error(), "line 2") || !strings.Contains(err.Error(), "frobnicate") {
		t.Fatalf("error %q does not name the offending line", err)
	}
}

func TestParse_AbortsOnFirstError(t *testing.T) {
	_, err := Parse("type \"unclosed\nwait 1s\n")
	if err == nil {
		t.Fatal("Parse() error = nil, want parse error")
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("error %q does not carry the line number", err)
	}
}

func TestStripInlineComment(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{`wait 1s # comment`, `wait 1s`},
		{`type "test" # inline`, `type "test"`},
		{`type "#hashtag"`, `type "#hashtag"`},
		{`type "test#1" # comment`, `type "test#1"`},
		{`type "esc \" # not out" # real`, `type "esc \" # not out"`},
	}
	for _, tt := range tests {
		if got := stripInlineComment(tt.line); got != tt.want {
			t.Errorf("stripInlineComment(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"1s", time.Second},
		{"500ms", 500 * time.Millisecond},
		{"1.5s", 1500 * time.Millisecond},
		{"0s", 0},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.in)
		if err != nil {
			t.Errorf("parseDuration(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"5minutes", "abc", "10", "1.5ms", "-1s", ""} {
		if _, err := parseDuration(bad); err == nil {
			t.Errorf("parseDuration(%q) error = nil, want error", bad)
		}
	}
}

func TestParseQuotedString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"hello"`, "hello"},
		{`"hello world"`, "hello world"},
		{`"hello\nworld"`, "hello\nworld"},
		{`"tab\there"`, "tab\there"},
		{`"hello \"world\""`, `hello "world"`},
	}
	for _, tt := range tests {
		got, err := parseQuotedString(tt.in)
		if err != nil {
			t.Errorf("parseQuotedString(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseQuotedString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{`hello`, `"unclosed`, `unopened"`, `"`} {
		if _, err := parseQuotedString(bad); err == nil {
			t.Errorf("parseQuotedString(%q) error = nil, want error", bad)
		}
	}
}

func TestSplitQuoted(t *testing.T) {
	quoted, rest, err := splitQuoted(`"hello world" 2s`)
	if err != nil {
		t.Fatalf("splitQuoted() error = %v", err)
	}
	if quoted != `"hello world"` || rest != "2s" {
		t.Fatalf("splitQuoted() = %q, %q", quoted, rest)
	}

	quoted, rest, err = splitQuoted(`"esc \" quote"`)
	if err != nil {
		t.Fatalf("splitQuoted() error = %v", err)
	}
	if quoted != `"esc \" quote"` || rest != "" {
		t.Fatalf("splitQuoted() = %q, %q", quoted, rest)
	}

	if _, _, err := splitQuoted(`"unclosed`); err == nil {
		t.Fatal("splitQuoted() error = nil, want unclosed quote error")
	}
}
