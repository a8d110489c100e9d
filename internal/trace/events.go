package trace

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"BurstSpectra/internal/model"
)

// LoadUserEvents parses a user-interaction log: one event per line as
// "<press> <release> <type>", timestamps in seconds relative to the trace
// start, type one of touch, key, trackball, landscape, portrait. Blank
// lines and '#' comments are skipped.
func LoadUserEvents(path string) ([]model.UserEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var events []model.UserEvent
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields, skip := logFields(scanner.Text())
		if skip {
			continue
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 fields, got %d", lineNo, len(fields))
		}
		press, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad press time: %w", lineNo, err)
		}
		release, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad release time: %w", lineNo, err)
		}
		typ, err := parseUserEventType(fields[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		events = append(events, model.UserEvent{Type: typ, PressTime: press, ReleaseTime: release})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// LoadCPUActivities parses a CPU usage log: one sample per line as
// "<timestamp> <usage>", usage a fraction in [0, 1].
func LoadCPUActivities(path string) ([]model.CPUActivity, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var samples []model.CPUActivity
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields, skip := logFields(scanner.Text())
		if skip {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected 2 fields, got %d", lineNo, len(fields))
		}
		ts, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad timestamp: %w", lineNo, err)
		}
		usage, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad usage: %w", lineNo, err)
		}
		samples = append(samples, model.CPUActivity{Timestamp: ts, Usage: usage})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

func logFields(line string) (fields []string, skip bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, true
	}
	return strings.Fields(line), false
}

func parseUserEventType(s string) (model.UserEventType, error) {
	switch strings.ToLower(s) {
	case "touch", "screen":
		return model.EventScreenTouch, nil
	case "key":
		return model.EventKeyPress, nil
	case "trackball":
		return model.EventTrackball, nil
	case "landscape":
		return model.EventScreenLandscape, nil
	case "portrait":
		return model.EventScreenPortrait, nil
	}
	return 0, fmt.Errorf("unknown user event type %q", s)
}
