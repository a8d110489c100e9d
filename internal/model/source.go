package model

// TraceSource exposes the time-ordered inputs of one captured trace to the
// analysis engine. All slices must be sorted by time; the engine's
// correctness depends on it and callers violating the order are not
// defended against.
type TraceSource interface {
	// Packets returns every packet of the trace in capture order.
	Packets() []*PacketInfo

	// PacketSizeCounts maps payload size to its occurrence count.
	PacketSizeCounts() map[int]int

	// RRCStateRanges returns the ordered, non-overlapping radio-state
	// timeline covering the trace.
	RRCStateRanges() []RRCStateRange

	// Sessions returns the reconstructed TCP sessions.
	Sessions() []*Session

	// UserEvents returns the ordered user interactions.
	UserEvents() []UserEvent

	// CPUActivities returns the ordered CPU usage samples.
	CPUActivities() []CPUActivity
}

// EnergyModel supplies the radio energy spent in one state over a time
// window. Implementations may inspect the packet list for traffic-dependent
// states.
type EnergyModel interface {
	Energy(start, end float64, state RRCState, packets []*PacketInfo) float64
}
