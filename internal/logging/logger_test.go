package logging

import (
	"testing"

	"github.com/mikey/mail-triage/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger_Levels(t *testing.T) {
	tests := []struct {
		level     string
		format    string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", "console", true, true},
		{"info", "json", false, true},
		{"error", "json", false, false},
		{"bogus", "console", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			v := config.NewEmptyViper()
			v.Set("logging.level", tt.level)
			v.Set("logging.format", tt.format)

			logger, err := InitLogger(config.NewFromViper(v))
			if err != nil {
				t.Fatalf("InitLogger failed: %v", err)
			}
			core := logger.Core()
			if got := core.Enabled(zapcore.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := core.Enabled(zapcore.InfoLevel); got != tt.wantInfo {
				t.Errorf("info enabled = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestInitConsoleLogger(t *testing.T) {
	quiet, err := InitConsoleLogger(false, false)
	if err != nil {
		t.Fatal(err)
	}
	if quiet.Core().Enabled(zapcore.InfoLevel) {
		t.Error("non-verbose console logger should only emit warnings and above")
	}

	verbose, err := InitConsoleLogger(true, true)
	if err != nil {
		t.Fatal(err)
	}
	if !verbose.Core().Enabled(zapcore.DebugLevel) {
		t.Error("verbose console logger should emit debug")
	}
}
