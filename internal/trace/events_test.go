package trace

import (
	"os"
	"path/filepath"
	"testing"

	"BurstSpectra/internal/model"
)

func writeLog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write log: %v", err)
	}
	return path
}

func TestLoadUserEvents(t *testing.T) {
	path := writeLog(t, "user.log", `
# press release type
1.5 1.6 touch
3.0 3.1 key
8.2 8.4 landscape

12.0 12.1 trackball
`)
	events, err := LoadUserEvents(path)
	if err != nil {
		t.Fatalf("LoadUserEvents failed: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	if events[0].Type != model.EventScreenTouch || events[0].PressTime != 1.5 || events[0].ReleaseTime != 1.6 {
		t.Errorf("first event = %+v", events[0])
	}
	if events[2].Type != model.EventScreenLandscape {
		t.Errorf("third event type = %v, want landscape", events[2].Type)
	}
	if !events[2].Type.IsScreenRotation() {
		t.Error("landscape should count as screen rotation")
	}
	if events[0].Type.IsScreenRotation() {
		t.Error("touch should not count as screen rotation")
	}
}

func TestLoadUserEventsBadLine(t *testing.T) {
	path := writeLog(t, "user.log", "1.0 2.0 touch extra\n")
	if _, err := LoadUserEvents(path); err == nil {
		t.Error("expected an error for a malformed line")
	}

	path = writeLog(t, "user2.log", "1.0 2.0 wave\n")
	if _, err := LoadUserEvents(path); err == nil {
		t.Error("expected an error for an unknown event type")
	}
}

func TestLoadCPUActivities(t *testing.T) {
	path := writeLog(t, "cpu.log", "0.5 0.25\n1.5 0.90\n")
	samples, err := LoadCPUActivities(path)
	if err != nil {
		t.Fatalf("LoadCPUActivities failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[1].Timestamp != 1.5 || samples[1].Usage != 0.90 {
		t.Errorf("second sample = %+v", samples[1])
	}
}

func TestLoadCPUActivitiesBadUsage(t *testing.T) {
	path := writeLog(t, "cpu.log", "0.5 high\n")
	if _, err := LoadCPUActivities(path); err == nil {
		t.Error("expected an error for a non-numeric usage")
	}
}
