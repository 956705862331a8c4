package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/scriptty/internal/engine"
)

// keyBytes maps symbolic key names to the byte sequences a terminal sends
// for them. Arrow and navigation keys use the CSI sequences every modern
// terminal emits in normal mode.
var keyBytes = map[string][]byte{
	"Enter":     []byte("\r"),
	"Tab":       []byte("\t"),
	"Space":     []byte(" "),
	"Escape":    []byte("\x1b"),
	"Backspace": {0x7f},
	"Delete":    []byte("\x1b[3~"),
	"Up":        []byte("\x1b[A"),
	"Down":      []byte("\x1b[B"),
	"Right":     []byte("\x1b[C"),
	"Left":      []byte("\x1b[D"),
	"Home":      []byte("\x1b[H"),
	"End":       []byte("\x1b[F"),
	"PageUp":    []byte("\x1b[5~"),
	"PageDown":  []byte("\x1b[6~"),
	"F1":        []byte("\x1bOP"),
	"F2":        []byte("\x1bOQ"),
	"F3":        []byte("\x1bOR"),
	"F4":        []byte("\x1bOS"),
	"F5":        []byte("\x1b[15~"),
	"F6":        []byte("\x1b[17~"),
	"F7":        []byte("\x1b[18~"),
	"F8":        []byte("\x1b[19~"),
	"F9":        []byte("\x1b[20~"),
	"F10":       []byte("\x1b[21~"),
	"F11":       []byte("\x1b[23~"),
	"F12":       []byte("\x1b[24~"),
}

// KeyPress writes the byte sequence for one symbolic key to the PTY.
// Supported forms: a bare name (key Enter), Ctrl+<letter>, Alt+<name or
// letter>, and Shift+<letter>. Unrecognized names fail at parse time.
type KeyPress struct {
	Spec string
	Data []byte
}

func parseKey(args string) (engine.Command, error) {
	spec := strings.TrimSpace(args)
	if spec == "" {
		return nil, fmt.Errorf("expected key name after 'key'")
	}
	data, err := resolveKey(spec)
	if err != nil {
		return nil, err
	}
	return &KeyPress{Spec: spec, Data: data}, nil
}

func resolveKey(spec string) ([]byte, error) {
	if mod, name, ok := strings.Cut(spec, "+"); ok {
		switch mod {
		case "Ctrl":
			return ctrlKey(name)
		case "Alt":
			// Alt is the escape prefix on top of the plain key.
			plain, err := resolveKey(name)
			if err != nil {
				return nil, err
			}
			return append([]byte("\x1b"), plain...), nil
		case "Shift":
			// Shift only upcases letters; Shift+Enter and friends have no
			// distinct sequence, so rejecting them beats lying.
			if len(name) == 1 && name[0] >= 'a' && name[0] <= 'z' {
				return []byte(strings.ToUpper(name)), nil
			}
			return nil, fmt.Errorf("unknown key: Shift+%s", name)
		default:
			return nil, fmt.Errorf("unknown modifier: %s", mod)
		}
	}

	if seq, ok := keyBytes[spec]; ok {
		return seq, nil
	}
	// A single printable character is its own sequence.
	if len(spec) == 1 && spec[0] >= ' ' && spec[0] < 0x7f {
		return []byte(spec), nil
	}
	return nil, fmt.Errorf("unknown key: %s", spec)
}

// ctrlKey maps Ctrl+<letter> to the control byte the terminal would send:
// Ctrl+A is 0x01 through Ctrl+Z at 0x1a. The letter is case-insensitive.
func ctrlKey(name string) ([]byte, error) {
	if len(name) != 1 {
		return nil, fmt.Errorf("unknown key: Ctrl+%s", name)
	}
	ch := name[0]
	if ch >= 'a' && ch <= 'z' {
		ch -= 'a' - 'A'
	}
	if ch < 'A' || ch > 'Z' {
		return nil, fmt.Errorf("unknown key: Ctrl+%s", name)
	}
	return []byte{ch - 'A' + 1}, nil
}

func (c *KeyPress) Name() string { return keywordKey }

func (c *KeyPress) Execute(_ context.Context, ec *engine.Context) error {
	return ec.WriteToPTY(c.Data)
}
