// Package logging provides tests for the console logger and watering history.
package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"ERROR", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"chatty", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidLevelAndFormat(t *testing.T) {
	if !ValidLevel("debug") || ValidLevel("loud") {
		t.Error("ValidLevel mismatch")
	}
	if !ValidFormat("logfmt") || ValidFormat("yaml") {
		t.Error("ValidFormat mismatch")
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsole(&buf, ConsoleOptions{Level: "warn", Format: "text", Prefix: "test"})

	logger.Info("hidden")
	logger.Warn("shown", "plant", "fern")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "fern") {
		t.Errorf("expected warn line with field, got %q", out)
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic.
	Discard().Error("nothing", "k", "v")
}

func TestAppendAndReadHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		ev := WaterEvent{
			Time:   base.Add(time.Duration(i) * time.Hour),
			Mode:   ModeTargeted,
			Plants: []string{"fern"},
		}
		if err := AppendHistory(path, ev); err != nil {
			t.Fatalf("AppendHistory: %v", err)
		}
	}

	t.Run("all events", func(t *testing.T) {
		events, err := ReadHistory(path, 0)
		if err != nil {
			t.Fatalf("ReadHistory: %v", err)
		}
		if len(events) != 5 {
			t.Fatalf("got %d events, want 5", len(events))
		}
	})

	t.Run("last n oldest first", func(t *testing.T) {
		events, err := ReadHistory(path, 2)
		if err != nil {
			t.Fatalf("ReadHistory: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("got %d events, want 2", len(events))
		}
		if !events[0].Time.Equal(base.Add(3 * time.Hour)) {
			t.Errorf("first event time = %v, want %v", events[0].Time, base.Add(3*time.Hour))
		}
		if !events[1].Time.Equal(base.Add(4 * time.Hour)) {
			t.Errorf("second event time = %v, want %v", events[1].Time, base.Add(4*time.Hour))
		}
	})
}

func TestReadHistoryMissingFile(t *testing.T) {
	events, err := ReadHistory(filepath.Join(t.TempDir(), "missing.jsonl"), 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestReadHistoryMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	content := `{"time":"2024-05-01T09:00:00Z","mode":"all","plants":["fern"]}` + "\nnot json\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadHistory(path, 0)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line number in error, got %v", err)
	}
}

func TestTailHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	ev := WaterEvent{
		Time:   time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local),
		Mode:   ModeAll,
		Plants: []string{"cactus", "fern"},
	}
	if err := AppendHistory(path, ev); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := TailHistory(&buf, path, 10); err != nil {
		t.Fatalf("TailHistory: %v", err)
	}
	want := "2024-05-01 09:00  watered (--all): cactus, fern\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
