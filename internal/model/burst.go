package model

// BurstTag is a single classification assigned to a burst by the rule
// chain. A burst usually carries one tag; protocol bursts may stack
// several, and a user-input burst backed by high CPU load stacks CPUBusy.
type BurstTag int

const (
	TagBackground BurstTag = iota
	TagLong
	TagConnClose
	TagConnEstablish
	TagReset
	TagKeepAlive
	TagZeroWindow
	TagWindowUpdate
	TagLossRecover
	TagLossDuplicate
	TagServerDelay
	TagUserInput
	TagScreenRotation
	TagCPUBusy
	TagClientDelay
	TagPeriodical
	TagUnknown
)

// BurstCategory is the single dominant classification of a burst, derived
// from its first tag. It is the grouping key for the per-category rollup.
type BurstCategory int

const (
	CategoryBackground BurstCategory = iota
	CategoryLong
	CategoryProtocol
	CategoryLoss
	CategoryServer
	CategoryUser
	CategoryScreenRotation
	CategoryCPU
	CategoryClient
	CategoryPeriodical
	CategoryUnknown
)

// Categories lists all burst categories in rollup order.
var Categories = []BurstCategory{
	CategoryBackground,
	CategoryLong,
	CategoryProtocol,
	CategoryLoss,
	CategoryServer,
	CategoryUser,
	CategoryScreenRotation,
	CategoryCPU,
	CategoryClient,
	CategoryPeriodical,
	CategoryUnknown,
}

// Category returns the category a tag belongs to.
func (t BurstTag) Category() BurstCategory {
	switch t {
	case TagBackground:
		return CategoryBackground
	case TagLong:
		return CategoryLong
	case TagConnClose, TagConnEstablish, TagReset, TagKeepAlive, TagZeroWindow, TagWindowUpdate:
		return CategoryProtocol
	case TagLossRecover, TagLossDuplicate:
		return CategoryLoss
	case TagServerDelay:
		return CategoryServer
	case TagUserInput:
		return CategoryUser
	case TagScreenRotation:
		return CategoryScreenRotation
	case TagCPUBusy:
		return CategoryCPU
	case TagClientDelay:
		return CategoryClient
	case TagPeriodical:
		return CategoryPeriodical
	}
	return CategoryUnknown
}

func (c BurstCategory) String() string {
	switch c {
	case CategoryBackground:
		return "background"
	case CategoryLong:
		return "long"
	case CategoryProtocol:
		return "protocol"
	case CategoryLoss:
		return "loss"
	case CategoryServer:
		return "server"
	case CategoryUser:
		return "user"
	case CategoryScreenRotation:
		return "screen-rotation"
	case CategoryCPU:
		return "cpu"
	case CategoryClient:
		return "client"
	case CategoryPeriodical:
		return "periodical"
	}
	return "unknown"
}

// Burst is an ordered, contiguous, non-empty run of packets treated as one
// application-level activity unit. A Burst does not own its packets: it
// holds a slice view over the trace's packet list, so merging two adjacent
// bursts only widens the view.
type Burst struct {
	packets []*PacketInfo

	Tags       []BurstTag
	Energy     float64
	ActiveTime float64

	// LongGapToNext marks a gap to the following burst longer than the
	// long-burst gap threshold. The final burst is always marked.
	LongGapToNext bool

	// FirstUplinkDataPacket is set when periodicity is attributed to a
	// specific HTTP request carried by this burst.
	FirstUplinkDataPacket *PacketInfo
}

// NewBurst creates a burst over the given view of the trace packet list.
// The view must be non-empty and contiguous within the trace.
func NewBurst(view []*PacketInfo) *Burst {
	return &Burst{packets: view}
}

// Packets returns the ordered member packets.
func (b *Burst) Packets() []*PacketInfo { return b.packets }

// BeginPacket returns the first packet of the burst.
func (b *Burst) BeginPacket() *PacketInfo { return b.packets[0] }

// EndPacket returns the last packet of the burst.
func (b *Burst) EndPacket() *PacketInfo { return b.packets[len(b.packets)-1] }

// BeginTime is the timestamp of the first packet.
func (b *Burst) BeginTime() float64 { return b.packets[0].Timestamp }

// EndTime is the timestamp of the last packet.
func (b *Burst) EndTime() float64 { return b.packets[len(b.packets)-1].Timestamp }

// Merge absorbs the directly following burst by widening the packet view.
// Valid only when next's packets immediately follow b's in the trace.
func (b *Burst) Merge(next *Burst) {
	b.packets = b.packets[:len(b.packets)+len(next.packets)]
}

// AddTag appends a classification tag.
func (b *Burst) AddTag(t BurstTag) {
	b.Tags = append(b.Tags, t)
}

// SetTag discards any existing tags and leaves the burst with t alone.
func (b *Burst) SetTag(t BurstTag) {
	b.Tags = []BurstTag{t}
}

// HasTag reports whether the burst carries the given tag.
func (b *Burst) HasTag(t BurstTag) bool {
	for _, have := range b.Tags {
		if have == t {
			return true
		}
	}
	return false
}

// PayloadBytes returns the payload carried by the burst's
// tracked-application packets.
func (b *Burst) PayloadBytes() int {
	total := 0
	for _, p := range b.packets {
		if p.AppName != "" {
			total += p.PayloadLen
		}
	}
	return total
}

// Category derives the burst's dominant category from its first tag.
func (b *Burst) Category() BurstCategory {
	if len(b.Tags) == 0 {
		return CategoryUnknown
	}
	return b.Tags[0].Category()
}
