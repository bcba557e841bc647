package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestVerboseToggle(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)

	SetVerbose(false)
	Debug("hidden %s", "message")
	if buf.Len() != 0 {
		t.Errorf("expected no output when verbose disabled, got %q", buf.String())
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected IsVerbose true")
	}
	Debug("chunked %d pages", 3)
	Info("wrote record %s", "lab_1")
	Warn("skipping document %s", "note_2")
	Section("Retrieval")

	out := buf.String()
	for _, want := range []string{
		"[DEBUG] chunked 3 pages",
		"[INFO] wrote record lab_1",
		"[WARN] skipping document note_2",
		"=== Retrieval ===",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
