package notification

import (
	"errors"
	"strings"
	"testing"

	"BurstSpectra/internal/model"
)

// recordingNotifier captures the last message handed to Send.
type recordingNotifier struct {
	subject string
	body    string
	err     error
}

func (r *recordingNotifier) Send(subject, body string) error {
	r.subject = subject
	r.body = body
	return r.err
}

func TestAnnounceRunComposesSummary(t *testing.T) {
	result := &model.AnalysisResult{
		RunID:                    "run-42",
		TraceName:                "capture.pcap",
		Bursts:                   make([]*model.Burst, 3),
		TotalEnergy:              1.25,
		PeriodicCount:            2,
		DiffPeriodicCount:        1,
		TightlyCoupledBurstCount: 0,
	}

	var rec recordingNotifier
	var n model.Notifier = &rec
	if err := AnnounceRun(n, result); err != nil {
		t.Fatalf("AnnounceRun failed: %v", err)
	}

	if !strings.Contains(rec.subject, "run-42") {
		t.Errorf("subject %q should name the run", rec.subject)
	}
	for _, want := range []string{"capture.pcap", "3 bursts", "1.2500 J", "2 periodic (1 origins)"} {
		if !strings.Contains(rec.body, want) {
			t.Errorf("body %q should contain %q", rec.body, want)
		}
	}
}

func TestAnnounceRunPropagatesSendError(t *testing.T) {
	rec := recordingNotifier{err: errors.New("nats down")}
	if err := AnnounceRun(&rec, &model.AnalysisResult{RunID: "run-1"}); err == nil {
		t.Error("AnnounceRun should surface the send error")
	}
}
