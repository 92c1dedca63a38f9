package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		format  string
		pretty  bool
		wantErr bool
	}{
		{"", true, false},
		{"console", true, false},
		{"json", false, false},
		{"xml", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			pretty, err := ParseFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if pretty != tt.pretty {
				t.Errorf("Expected pretty %v, got %v", tt.pretty, pretty)
			}
		})
	}
}

func TestStageJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	defer Init(DefaultConfig())

	log := Stage("prepare")
	log.Info().Str("table", "customers").Msg("Prepared table")
	log.Debug().Msg("hidden at info level")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["stage"] != "prepare" {
		t.Errorf("Expected stage prepare, got %v", entry["stage"])
	}
	if entry["table"] != "customers" {
		t.Errorf("Expected table customers, got %v", entry["table"])
	}
}

func TestInitInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "chatty", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("debug")
	if buf.Len() != 0 {
		t.Errorf("Expected debug to be filtered, got %q", buf.String())
	}
	Info().Msg("info")
	if buf.Len() == 0 {
		t.Error("Expected info to be written")
	}
}
