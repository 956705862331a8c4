package script

import (
	"bytes"
	"context"
	"testing"
)

func TestParseKey_Sequences(t *testing.T) {
	tests := []struct {
		spec string
		want []byte
	}{
		{"Enter", []byte("\r")},
		{"Tab", []byte("\t")},
		{"Space", []byte(" ")},
		{"Escape", []byte("\x1b")},
		{"Backspace", []byte{0x7f}},
		{"Up", []byte("\x1b[A")},
		{"Down", []byte("\x1b[B")},
		{"Left", []byte("\x1b[D")},
		{"Right", []byte("\x1b[C")},
		{"F1", []byte("\x1bOP")},
		{"F12", []byte("\x1b[24~")},
		{"Ctrl+C", []byte{0x03}},
		{"Ctrl+c", []byte{0x03}},
		{"Ctrl+A", []byte{0x01}},
		{"Ctrl+Z", []byte{0x1a}},
		{"Alt+Enter", []byte("\x1b\r")},
		{"Alt+x", []byte("\x1bx")},
		{"Shift+a", []byte("A")},
		{"a", []byte("a")},
	}
	for _, tt := range tests {
		cmd, err := parseKey(tt.spec)
		if err != nil {
			t.Errorf("parseKey(%q) error = %v", tt.spec, err)
			continue
		}
		kp := cmd.(*KeyPress)
		if !bytes.Equal(kp.Data, tt.want) {
			t.Errorf("parseKey(%q) = %q, want %q", tt.spec, kp.Data, tt.want)
		}
	}
}

func TestParseKey_Rejects(t *testing.T) {
	for _, bad := range []string{"", "Bogus", "Ctrl+Enter", "Ctrl+1", "Meta+X", "Shift+Bogus", "Shift+Enter", "Shift+F1"} {
		if _, err := parseKey(bad); err == nil {
			t.Errorf("parseKey(%q) error = nil, want error", bad)
		}
	}
}

func TestKeyPress_WritesToPTY(t *testing.T) {
	w := &timedWriter{}
	cmd, err := parseKey("Ctrl+C")
	if err != nil {
		t.Fatalf("parseKey() error = %v", err)
	}
	if err := cmd.Execute(context.Background(), testContext(w, nil)); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(w.writes) != 1 || w.writes[0] != "\x03" {
		t.Fatalf("writes = %q, want control byte 0x03", w.writes)
	}
}
