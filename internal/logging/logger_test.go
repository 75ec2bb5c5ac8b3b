package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		verbose bool
		debug   bool
	}{
		{"development defaults to info", "development", false, false},
		{"production defaults to info", "production", false, false},
		{"verbose enables debug", "development", true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := New(tc.env, tc.verbose)
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			defer logger.Sync()

			if got := logger.Core().Enabled(zapcore.DebugLevel); got != tc.debug {
				t.Errorf("Expected debug enabled=%v, got %v", tc.debug, got)
			}
			if !logger.Core().Enabled(zapcore.InfoLevel) {
				t.Error("Expected info level to be enabled")
			}
		})
	}
}
