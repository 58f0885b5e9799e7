package util

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"", true, true},
		{"yes", false, true},
		{" ON ", false, true},
		{"0", true, false},
		{"off", true, false},
		{"maybe", true, true},
	}
	for _, tt := range tests {
		t.Setenv("PETDIARY_TEST_BOOL", tt.value)
		assert.Equal(t, tt.want, ParseBoolEnv("PETDIARY_TEST_BOOL", tt.def), "value %q", tt.value)
	}
}

func TestParseDurationEnv(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", time.Minute},
		{"90s", 90 * time.Second},
		{"2m", 2 * time.Minute},
		{"-5s", time.Minute},
		{"soon", time.Minute},
	}
	for _, tt := range tests {
		t.Setenv("PETDIARY_TEST_DURATION", tt.value)
		assert.Equal(t, tt.want, ParseDurationEnv("PETDIARY_TEST_DURATION", time.Minute), "value %q", tt.value)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("PETDIARY_TEST_STRING", "  ")
	assert.Equal(t, "fallback", GetEnv("PETDIARY_TEST_STRING", "fallback"))
	t.Setenv("PETDIARY_TEST_STRING", " value ")
	assert.Equal(t, "value", GetEnv("PETDIARY_TEST_STRING", "fallback"))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("verbose"))
}
