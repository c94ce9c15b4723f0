package logging

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestShouldRedact(t *testing.T) {
	redacted := []string{"password", "raw_password", "PWD", "api_token", "client_secret"}
	for _, key := range redacted {
		if !shouldRedact(key) {
			t.Errorf("shouldRedact(%q) = false, want true", key)
		}
	}
	clear := []string{"addr", "model", "guess_number", "segments"}
	for _, key := range clear {
		if shouldRedact(key) {
			t.Errorf("shouldRedact(%q) = true, want false", key)
		}
	}
}

func TestNewNilConfig(t *testing.T) {
	if logger := New(nil); logger == nil {
		t.Fatal("New(nil) returned nil logger")
	}
}
