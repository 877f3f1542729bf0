package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	tests := []struct {
		in   string
		want string
	}{
		{"debug", "debug"},
		{"INFO", "info"},
		{"warn", "warning"},
		{"warning", "warning"},
		{"error", "error"},
		{"bogus", "info"},
		{"", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			SetLevel(tt.in)
			if got := Level(); got != tt.want {
				t.Errorf("Level() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("warn")
	defer func() {
		SetLevel("info")
		SetFormat("text")
	}()

	Debug("debug %d", 1)
	Info("info %d", 2)
	Warn("warn %d", 3)
	Error("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("records below warn should be filtered, got:\n%s", out)
	}
	if !strings.Contains(out, "warn 3") || !strings.Contains(out, "error 4") {
		t.Errorf("expected warn and error records, got:\n%s", out)
	}
}

func TestSetFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormat("json")
	defer SetFormat("text")

	WithFields(map[string]interface{}{"strategy": "primary"}).Info("decoded")

	var rec map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("record is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "decoded" {
		t.Errorf("msg = %v, want decoded", rec["msg"])
	}
	if rec["strategy"] != "primary" {
		t.Errorf("strategy field = %v, want primary", rec["strategy"])
	}
}
