package model

// UserEventType enumerates the user interactions the classifier correlates
// with burst starts.
type UserEventType int

const (
	EventScreenTouch UserEventType = iota
	EventKeyPress
	EventTrackball
	EventScreenLandscape
	EventScreenPortrait
)

// IsScreenRotation reports whether the event is an orientation change.
func (t UserEventType) IsScreenRotation() bool {
	return t == EventScreenLandscape || t == EventScreenPortrait
}

// UserEvent is one user interaction with press and release timestamps.
type UserEvent struct {
	Type        UserEventType
	PressTime   float64
	ReleaseTime float64
}

// CPUActivity is one CPU usage sample. Usage is a fraction in [0, 1].
type CPUActivity struct {
	Timestamp float64
	Usage     float64
}
