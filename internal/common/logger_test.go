package common

import (
	"testing"

	"github.com/ternarybob/arbor/models"
)

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		format string
		want   models.OutputFormat
	}{
		{"json", models.OutputFormatJSON},
		{"text", models.OutputFormatLogfmt},
		{"", models.OutputFormatLogfmt},
		{"logfmt", models.OutputFormatLogfmt},
	}

	for _, tt := range tests {
		if got := outputFormat(tt.format); got != tt.want {
			t.Errorf("outputFormat(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestSetupLoggerStdout(t *testing.T) {
	config := NewDefaultConfig()
	config.Logging.Level = "debug"
	config.Logging.Format = "json"

	logger := SetupLogger(config)
	if logger == nil {
		t.Fatal("SetupLogger returned nil")
	}
	if GetLogger() == nil {
		t.Fatal("GetLogger returned nil after setup")
	}

	// Must not panic when emitting through the configured writer.
	logger.Debug().Str("check", "setup").Msg("logger configured")
}
