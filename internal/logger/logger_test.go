package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSetupWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, false)
	log.Info("trial completed", "trial", "abc", "score", 0.25)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "trial completed" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["trial"] != "abc" {
		t.Errorf("trial = %v", record["trial"])
	}
	if record["score"] != 0.25 {
		t.Errorf("score = %v", record["score"])
	}

	ts, ok := record["time"].(string)
	if !ok {
		t.Fatal("no time attribute")
	}
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		t.Fatalf("timestamp %q is not RFC3339: %v", ts, err)
	}
	if parsed.Location() != time.UTC && !strings.HasSuffix(ts, "Z") {
		t.Errorf("timestamp %q is not UTC", ts)
	}
}

func TestSetupLevels(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, false)
	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug record written at info level: %s", buf.String())
	}

	buf.Reset()
	log = Setup(&buf, true)
	log.Debug("visible")
	if buf.Len() == 0 {
		t.Error("debug record missing at debug level")
	}
	if !strings.Contains(buf.String(), "source") {
		t.Error("debug mode should record source positions")
	}
}

func TestGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, false)
	L().Info("through the global")
	if !strings.Contains(buf.String(), "through the global") {
		t.Error("global logger did not pick up Setup")
	}
}
