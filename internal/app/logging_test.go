package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/keyspell/internal/config"
)

func TestLogLevels(t *testing.T) {
	tests := []struct {
		input string
		level LogLevel
		name  string
	}{
		{"debug", LogLevelDebug, "DEBUG"},
		{"INFO", LogLevelInfo, "INFO"},
		{"warn", LogLevelWarn, "WARN"},
		{"Warning", LogLevelWarn, "WARN"},
		{"error", LogLevelError, "ERROR"},
		{"verbose", LogLevelInfo, "INFO"},
		{"", LogLevelInfo, "INFO"},
	}
	for _, tt := range tests {
		level := ParseLogLevel(tt.input)
		if level != tt.level {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, level, tt.level)
		}
		if got := level.String(); got != tt.name {
			t.Errorf("ParseLogLevel(%q).String() = %q, want %q", tt.input, got, tt.name)
		}
	}
	if got := LogLevel(42).String(); got != "UNKNOWN" {
		t.Errorf("LogLevel(42).String() = %q", got)
	}
}

func TestLogger_Filtering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &buf, Prefix: "keyspell"})

	logger.Debug("scan %s", "/usr/share/hunspell")
	logger.Info("loaded %d words", 12)
	logger.Warn("no personal list for %s", "de")
	logger.Error("check failed")

	out := buf.String()
	if strings.Contains(out, "scan") || strings.Contains(out, "loaded") {
		t.Errorf("messages below warn were written:\n%s", out)
	}
	for _, want := range []string{"[WARN] keyspell: no personal list for de", "[ERROR] keyspell: check failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "\n"); n != 2 {
		t.Errorf("got %d lines, want 2", n)
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf})

	logger.WithComponent("wordlist").WithField("language", "en_US").Info("reloaded")
	logger.WithFields(map[string]any{"b": 2, "a": 1}).Info("sorted")
	logger.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[0], "reloaded {component=wordlist, language=en_US}") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "sorted {a=1, b=2}") {
		t.Errorf("line 2 = %q", lines[1])
	}
	if strings.Contains(lines[2], "{") {
		t.Errorf("parent logger picked up derived fields: %q", lines[2])
	}
}

func TestLogger_DerivedSharesSink(t *testing.T) {
	var first, second bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelError, Output: &first})
	child := logger.WithComponent("spell")

	logger.SetLevel(LogLevelDebug)
	child.Debug("visible")
	if logger.Level() != LogLevelDebug || !strings.Contains(first.String(), "visible") {
		t.Errorf("derived logger ignored parent level: %q", first.String())
	}

	logger.SetOutput(&second)
	child.Info("moved")
	if !strings.Contains(second.String(), "moved") {
		t.Error("derived logger ignored parent output")
	}

	logger.Disable()
	child.Error("dropped")
	logger.Enable()
	child.Error("back")
	if strings.Contains(second.String(), "dropped") || !strings.Contains(second.String(), "back") {
		t.Errorf("disable/enable not shared: %q", second.String())
	}
}

func TestNullLogger(t *testing.T) {
	// Must not panic without an output.
	NullLogger.Error("nothing")
	NullLogger.WithComponent("x").Info("nothing")
}

func TestGlobalLogger(t *testing.T) {
	old := GetLogger()
	defer SetLogger(old)

	var buf bytes.Buffer
	SetLogger(NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf}))

	app := &Application{}
	app.Logger().Info("from the global logger")
	if !strings.Contains(buf.String(), "from the global logger") {
		t.Error("an application without a logger should use the global one")
	}
}

func TestOpenLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "keyspell.log")

	logger, closer, err := OpenLogger(config.LoggingConfig{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("OpenLogger() error = %v", err)
	}
	logger.Debug("language %s", "en_US")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[DEBUG] keyspell: language en_US") {
		t.Errorf("log file = %q", data)
	}
}

func TestOpenLogger_NoFile(t *testing.T) {
	logger, closer, err := OpenLogger(config.LoggingConfig{Level: "info"})
	if err != nil {
		t.Fatalf("OpenLogger() error = %v", err)
	}
	defer closer.Close()

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.Error("dropped")
	if buf.Len() != 0 {
		t.Errorf("logger without file wrote %q", buf.String())
	}
}

func TestOpenLogger_BadPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := OpenLogger(config.LoggingConfig{File: filepath.Join(blocker, "x.log")}); err == nil {
		t.Error("OpenLogger() should fail when the directory cannot be created")
	}
}
