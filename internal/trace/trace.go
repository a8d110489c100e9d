// Package trace assembles the analysis inputs of one captured trace:
// the ordered packet list, payload histogram, reconstructed TCP sessions
// with HTTP request records, and the behavioral event logs.
package trace

import "BurstSpectra/internal/model"

// Trace is the assembled input set of one capture. It implements
// model.TraceSource and is immutable once built, except for the radio
// timeline attached after the radio collaborator has run.
type Trace struct {
	packets       []*model.PacketInfo
	sizeCounts    map[int]int
	sessions      []*model.Session
	userEvents    []model.UserEvent
	cpuActivities []model.CPUActivity
	rrcRanges     []model.RRCStateRange
}

func (t *Trace) Packets() []*model.PacketInfo          { return t.packets }
func (t *Trace) PacketSizeCounts() map[int]int         { return t.sizeCounts }
func (t *Trace) Sessions() []*model.Session            { return t.sessions }
func (t *Trace) UserEvents() []model.UserEvent         { return t.userEvents }
func (t *Trace) CPUActivities() []model.CPUActivity    { return t.cpuActivities }
func (t *Trace) RRCStateRanges() []model.RRCStateRange { return t.rrcRanges }

// SetRRCStateRanges attaches the radio-state timeline derived for this
// trace. Must be called before the analysis runs.
func (t *Trace) SetRRCStateRanges(ranges []model.RRCStateRange) {
	t.rrcRanges = ranges
}
