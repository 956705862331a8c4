package script_test

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dicklesworthstone/scriptty/internal/engine"
	"github.com/Dicklesworthstone/scriptty/internal/script"
)

// captureSink collects everything the engine emits.
type captureSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *captureSink) write(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Write(data)
}

func (s *captureSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func runScript(t *testing.T, program string, args []string, src string) (string, error) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("end-to-end tests require a Unix pseudo-terminal")
	}

	cmds, err := script.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	sink := &captureSink{}
	eng, err := engine.Spawn(program, args, &engine.Options{
		Sink:  sink.write,
		Grace: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	t.Cleanup(func() { _ = eng.Close() })

	execErr := eng.Execute(context.Background(), cmds)
	return sink.String(), execErr
}

func TestEndToEnd_TypedTextEchoes(t *testing.T) {
	out, err := runScript(t, "cat", nil, `
wait 100ms
type "echo test"
wait 100ms
`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "echo test") {
		t.Fatalf("sink output %q does not contain typed text", out)
	}
}

func TestEndToEnd_ExpectAgainstShell(t *testing.T) {
	out, err := runScript(t, "sh", []string{"-i"}, `
expect "$"
send "echo X"
expect "X"
send "exit"
`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "$") {
		t.Fatalf("sink output %q does not contain a prompt", out)
	}
}

func TestEndToEnd_ExpectTimeout(t *testing.T) {
	start := time.Now()
	_, err := runScript(t, "cat", nil, `expect "never-appears" 500ms`)
	elapsed := time.Since(start)

	if !errors.Is(err, engine.ErrTimeout) {
		t.Fatalf("Execute() error = %v, want ErrTimeout", err)
	}
	if !strings.Contains(err.Error(), "never-appears") {
		t.Fatalf("error %q does not name the pattern", err)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("timeout took %v, want ~500ms", elapsed)
	}
}

func TestEndToEnd_ShowBypassesChild(t *testing.T) {
	out, err := runScript(t, "cat", nil, `
show "annotation one"
wait 50ms
show "annotation two"
`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	one := strings.Index(out, "annotation one")
	two := strings.Index(out, "annotation two")
	if one < 0 || two < 0 || two < one {
		t.Fatalf("annotations missing or out of order in %q", out)
	}
}
