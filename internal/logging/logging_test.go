package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Level: WarnLevel, Output: &buf})

	logger.Debug("debug message", nil)
	logger.Info("info message", nil)
	logger.Warn("warn message", nil)
	logger.Error("error message", nil)

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below warn should be filtered, got: %s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("warn and error should be logged, got: %s", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: JSONFormat, Level: InfoLevel, Output: &buf})

	logger.Info("alias created", map[string]interface{}{
		"source": "term/45",
		"alias":  "/grand-parent",
	})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["message"] != "alias created" {
		t.Errorf("message = %v", entry["message"])
	}
	fields, ok := entry["fields"].(map[string]interface{})
	if !ok {
		t.Fatal("expected fields object")
	}
	if fields["source"] != "term/45" {
		t.Errorf("fields.source = %v", fields["source"])
	}
}

func TestHumanFormatFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Level: InfoLevel, Output: &buf})

	logger.Info("saved", map[string]interface{}{"b": 2, "a": 1})

	out := buf.String()
	// Fields are emitted in sorted key order.
	if !strings.Contains(out, "a=1 b=2") {
		t.Errorf("expected sorted fields, got: %s", out)
	}
}

func TestParseHelpers(t *testing.T) {
	if ParseLevel("debug") != DebugLevel {
		t.Error("ParseLevel(debug)")
	}
	if ParseLevel("bogus") != InfoLevel {
		t.Error("ParseLevel should default to info")
	}
	if ParseFormat("json") != JSONFormat {
		t.Error("ParseFormat(json)")
	}
	if ParseFormat("") != HumanFormat {
		t.Error("ParseFormat should default to human")
	}
}
