// Package notification announces finished analysis runs over NATS so
// downstream consumers can pick up new results.
package notification

import (
	"encoding/json"
	"fmt"

	"BurstSpectra/internal/config"
	"BurstSpectra/internal/logger"
	"BurstSpectra/internal/model"

	"github.com/nats-io/nats.go"
)

// NATSNotifier implements the Notifier interface over a NATS subject.
type NATSNotifier struct {
	nc      *nats.Conn
	subject string
}

// NewNATSNotifier connects to the NATS server.
func NewNATSNotifier(cfg config.NotifierConfig) (*NATSNotifier, error) {
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.NotifLog.Infof("Connected to NATS server at %s", cfg.NATSURL)
	return &NATSNotifier{nc: nc, subject: cfg.Subject}, nil
}

// Send publishes a JSON message with the given subject line and body to the
// configured NATS subject.
func (n *NATSNotifier) Send(subject, body string) error {
	msg := struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}{Subject: subject, Body: body}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := n.nc.Publish(n.subject, data); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// AnnounceRun sends the run summary of a finished analysis through the
// given notifier.
func AnnounceRun(n model.Notifier, result *model.AnalysisResult) error {
	body := fmt.Sprintf(
		"run %s on trace %s: %d bursts, %.4f J total, %d periodic (%d origins), %d tightly coupled",
		result.RunID, result.TraceName, len(result.Bursts), result.TotalEnergy,
		result.PeriodicCount, result.DiffPeriodicCount, result.TightlyCoupledBurstCount)
	return n.Send(fmt.Sprintf("analysis run %s finished", result.RunID), body)
}

// Close drains and closes the NATS connection.
func (n *NATSNotifier) Close() {
	if n.nc != nil {
		n.nc.Drain()
		logger.NotifLog.Info("NATS connection drained and closed.")
	}
}
