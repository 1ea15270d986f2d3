package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf)

	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool // should log
	}{
		{
			name:    "info message",
			level:   LevelInfo,
			message: "match extracted",
			fields:  Fields{"objective": "herald"},
			want:    true,
		},
		{
			name:    "debug below threshold",
			level:   LevelDebug,
			message: "session opened",
			want:    false,
		},
		{
			name:    "error with err",
			level:   LevelError,
			message: "navigation failed",
			err:     errors.New("net::ERR_NAME_NOT_RESOLVED"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := buf.Len()

			logger.log(tt.level, tt.message, tt.fields, tt.err)

			logged := buf.Len() > before
			if logged != tt.want {
				t.Errorf("log() logged = %v, want %v", logged, tt.want)
			}
		})
	}
}

func TestLogger_EntryFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelDebug, &buf)

	logger.Error("extraction failed", Fields{"url": "https://example.com"}, errors.New("markup mismatch"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Unmarshal() error = %v, output %q", err, buf.String())
	}

	if entry.Level != "ERROR" {
		t.Errorf("Level = %q, want ERROR", entry.Level)
	}
	if entry.Message != "extraction failed" {
		t.Errorf("Message = %q", entry.Message)
	}
	if entry.Error != "markup mismatch" {
		t.Errorf("Error = %q", entry.Error)
	}
	if entry.Fields["url"] != "https://example.com" {
		t.Errorf("Fields[url] = %v", entry.Fields["url"])
	}
	if _, err := time.Parse(time.RFC3339, entry.Timestamp); err != nil {
		t.Errorf("Timestamp %q is not RFC3339: %v", entry.Timestamp, err)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	base := New(LevelDebug, &buf)
	child := base.With(Fields{"url": "u1", "objective": "baron"})

	child.Info("done", Fields{"objective": "dragon", "team": "red"})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if entry.Fields["url"] != "u1" {
		t.Errorf("Fields[url] = %v, want u1", entry.Fields["url"])
	}
	if entry.Fields["objective"] != "dragon" {
		t.Errorf("call fields should override logger fields, got %v", entry.Fields["objective"])
	}
	if entry.Fields["team"] != "red" {
		t.Errorf("Fields[team] = %v, want red", entry.Fields["team"])
	}

	// the parent is unchanged
	buf.Reset()
	base.Info("parent", nil)
	if strings.Contains(buf.String(), "u1") {
		t.Errorf("parent logger picked up child fields: %s", buf.String())
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug logs at debug", LevelDebug, LevelDebug, true},
		{"info logs at debug", LevelDebug, LevelInfo, true},
		{"debug doesn't log at info", LevelInfo, LevelDebug, false},
		{"warn doesn't log at error", LevelError, LevelWarn, false},
		{"error always logs", LevelDebug, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(tt.minLevel, &buf)

			logger.log(tt.logLevel, "test", nil, nil)

			if logged := buf.Len() > 0; logged != tt.shouldLog {
				t.Errorf("logged = %v, want %v", logged, tt.shouldLog)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{" warn ", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"trace", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("matches.ok")
	m.IncrCounter("matches.ok")
	m.IncrCounter("matches.failed")

	snapshot := m.GetSnapshot()

	if snapshot.Counters["matches.ok"] != 2 {
		t.Errorf("matches.ok = %v, want 2", snapshot.Counters["matches.ok"])
	}
	if snapshot.Counters["matches.failed"] != 1 {
		t.Errorf("matches.failed = %v, want 1", snapshot.Counters["matches.failed"])
	}
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("session.navigate", 100*time.Millisecond)
	m.RecordTiming("session.navigate", 200*time.Millisecond)
	m.RecordTiming("session.navigate", 150*time.Millisecond)

	stats := m.GetSnapshot().Timings["session.navigate"]

	if stats.Count != 3 {
		t.Errorf("Count = %v, want 3", stats.Count)
	}
	if stats.Min != 100*time.Millisecond {
		t.Errorf("Min = %v, want 100ms", stats.Min)
	}
	if stats.Max != 200*time.Millisecond {
		t.Errorf("Max = %v, want 200ms", stats.Max)
	}
	if stats.Average != 150*time.Millisecond {
		t.Errorf("Average = %v, want 150ms", stats.Average)
	}
}

func TestSnapshot_WriteTo(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("matches.ok")
	m.RecordTiming("session.open", time.Second)

	var buf bytes.Buffer
	if _, err := m.GetSnapshot().WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "matches.ok 1") {
		t.Errorf("output missing counter: %q", out)
	}
	if !strings.Contains(out, "session.open count=1 avg=1s") {
		t.Errorf("output missing timing: %q", out)
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	prev := Default()
	SetDefault(New(LevelDebug, &buf))
	defer SetDefault(prev)

	Debug("test debug", Fields{"key": "value"})
	Info("test info", nil)
	Warn("test warning", nil)
	Error("test error", Fields{"component": "test"}, errors.New("test"))

	if got := strings.Count(buf.String(), "\n"); got != 4 {
		t.Errorf("wrote %d lines, want 4", got)
	}

	IncrCounter("test")
	RecordTiming("test", time.Second)

	snapshot := GetMetricsSnapshot()
	if snapshot.Counters["test"] < 1 {
		t.Error("GetMetricsSnapshot() missing counter")
	}
}
