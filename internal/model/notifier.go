package model

// Notifier delivers out-of-band messages about finished analysis runs. The
// caller composes the message, implementations only carry it.
type Notifier interface {
	Send(subject, body string) error
}
