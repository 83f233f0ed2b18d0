package docmd

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name           string
		level          LogLevel
		setupFunc      func(*Logger)
		expectedOutput []string
		notExpected    []string
	}{
		{
			name:  "debug level shows all messages",
			level: LogDebug,
			setupFunc: func(l *Logger) {
				l.Debug("debug message")
				l.Info("info message")
				l.Warn("warn message")
				l.Error("error message")
			},
			expectedOutput: []string{
				"DEBUG", "debug message",
				"INFO", "info message",
				"WARN", "warn message",
				"ERROR", "error message",
			},
		},
		{
			name:  "info level hides debug messages",
			level: LogInfo,
			setupFunc: func(l *Logger) {
				l.Debug("debug message")
				l.Info("info message")
				l.Warn("warn message")
			},
			expectedOutput: []string{"INFO", "info message", "WARN", "warn message"},
			notExpected:    []string{"DEBUG", "debug message"},
		},
		{
			name:  "error level shows only errors",
			level: LogError,
			setupFunc: func(l *Logger) {
				l.Info("info message")
				l.Warn("warn message")
				l.Error("error message")
			},
			expectedOutput: []string{"ERROR", "error message"},
			notExpected:    []string{"INFO", "WARN"},
		},
		{
			name:  "off level shows nothing",
			level: LogOff,
			setupFunc: func(l *Logger) {
				l.Debug("debug message")
				l.Error("error message")
			},
			notExpected: []string{"debug message", "error message"},
		},
		{
			name:  "printf formatting",
			level: LogInfo,
			setupFunc: func(l *Logger) {
				l.Info("converted %d of %d files", 3, 4)
			},
			expectedOutput: []string{"converted 3 of 4 files"},
		},
		{
			name:  "structured fields",
			level: LogDebug,
			setupFunc: func(l *Logger) {
				l.WithFields(Fields{
					"input":     "notes.md",
					"direction": "md2docx",
				}).Debug("converting")
			},
			expectedOutput: []string{"converting", "input", "notes.md", "direction", "md2docx"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.level)

			tt.setupFunc(logger)

			output := buf.String()
			for _, expected := range tt.expectedOutput {
				if !strings.Contains(output, expected) {
					t.Errorf("Expected output to contain %q, but it didn't.\nOutput: %s", expected, output)
				}
			}
			for _, notExpected := range tt.notExpected {
				if strings.Contains(output, notExpected) {
					t.Errorf("Expected output NOT to contain %q, but it did.\nOutput: %s", notExpected, output)
				}
			}
		})
	}
}

func TestLoggerSetLevelIsShared(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogInfo)
	child := logger.WithField("job", 1)

	child.Debug("hidden")
	logger.SetLevel(LogDebug)
	child.Debug("shown")

	if !logger.IsDebugMode() {
		t.Error("IsDebugMode() = false after SetLevel(LogDebug)")
	}
	output := buf.String()
	if strings.Contains(output, "hidden") || !strings.Contains(output, "shown") {
		t.Errorf("child did not follow parent level:\n%s", output)
	}
}

func TestNewZapLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := NewZapLogger(zap.New(core))

	logger.Debug("dropped by core")
	logger.WithField("src", "a.png").Warn("image %s not found", "a.png")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Message != "image a.png not found" {
		t.Errorf("Message = %q", entries[0].Message)
	}
	if got := entries[0].ContextMap()["src"]; got != "a.png" {
		t.Errorf("src field = %v, want a.png", got)
	}
	if logger.IsDebugMode() {
		t.Error("IsDebugMode() = true for an info core")
	}
}

func TestGlobalLogger(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	var buf bytes.Buffer
	SetLogger(NewLogger(&buf, LogDebug))

	Debug("test debug")
	Info("test info")
	Warn("test warn")
	Error("test error")
	WithField("k", "v").Info("with field")

	output := buf.String()
	for _, want := range []string{"test debug", "test info", "test warn", "test error", "with field"} {
		if !strings.Contains(output, want) {
			t.Errorf("global output missing %q:\n%s", want, output)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogDebug,
		"INFO":    LogInfo,
		"warning": LogWarn,
		"error":   LogError,
		" off ":   LogOff,
		"verbose": LogInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
