package burst

import (
	"math"

	"BurstSpectra/internal/model"
)

// burstFacts are the per-burst observations the rule chain evaluates:
// payload and protocol-control classifications of the tracked-application
// packets, and the first such packet.
type burstFacts struct {
	payload int
	first   *model.PacketInfo
	tcp     map[model.TCPInfo]bool
}

// classifyRule is one link of the rule chain. It returns true when it
// settled the burst's classification, stopping the chain.
type classifyRule func(b *model.Burst, f *burstFacts) bool

// classifier runs the priority-ordered rule chain over the burst sequence.
// The user-event and CPU-sample cursors advance monotonically across
// bursts; they are never rewound, which keeps the synchronized scans linear
// and is required for correctness since bursts arrive in time order.
type classifier struct {
	a *analysis

	userEvents []model.UserEvent
	cpuSamples []model.CPUActivity
	uePtr      int
	cpuPtr     int
	prevBurst  *model.Burst

	rules []classifyRule
}

// classifyBursts assigns every burst its classification tags.
func (a *analysis) classifyBursts() {
	c := &classifier{
		a:          a,
		userEvents: a.src.UserEvents(),
		cpuSamples: a.src.CPUActivities(),
	}
	c.rules = []classifyRule{
		c.ruleBackground,
		c.ruleLongBurst,
		c.ruleProtocolControl,
		c.ruleServerDelay,
		c.ruleLossDuplicate,
		c.ruleLossRecover,
		c.ruleUserTriggered,
		c.ruleFallback,
	}
	for _, b := range a.bursts {
		f := gatherFacts(b)
		for _, rule := range c.rules {
			if rule(b, f) {
				break
			}
		}
		c.prevBurst = b
	}
}

func gatherFacts(b *model.Burst) *burstFacts {
	f := &burstFacts{tcp: make(map[model.TCPInfo]bool)}
	for _, p := range b.Packets() {
		if p.AppName == "" {
			continue
		}
		f.payload += p.PayloadLen
		if f.first == nil {
			f.first = p
		}
		if p.TCPInfo != model.TCPNone {
			f.tcp[p.TCPInfo] = true
		}
	}
	return f
}

// ruleBackground: a burst with no tracked-application packet is background
// noise regardless of anything else.
func (c *classifier) ruleBackground(b *model.Burst, f *burstFacts) bool {
	if f.first != nil {
		return false
	}
	b.AddTag(model.TagBackground)
	return true
}

// ruleLongBurst: a burst both long in duration and large in payload is a
// sustained transfer.
func (c *classifier) ruleLongBurst(b *model.Burst, f *burstFacts) bool {
	if b.EndTime()-b.BeginTime() <= c.a.profile.LargeBurstDuration || f.payload <= c.a.profile.LargeBurstSize {
		return false
	}
	b.AddTag(model.TagLong)
	c.a.longBurstCount++
	return true
}

// ruleProtocolControl: a zero-payload burst is explained by the TCP control
// traffic it carries; one tag per control type present, stacking. If still
// untagged and the burst opens with loss-recovery signaling, it is loss
// recovery. Falls through when nothing matched.
func (c *classifier) ruleProtocolControl(b *model.Burst, f *burstFacts) bool {
	if f.payload != 0 {
		return false
	}
	if f.tcp[model.TCPClose] {
		b.AddTag(model.TagConnClose)
	}
	if f.tcp[model.TCPEstablish] {
		b.AddTag(model.TagConnEstablish)
	}
	if f.tcp[model.TCPReset] {
		b.AddTag(model.TagReset)
	}
	if f.tcp[model.TCPKeepAlive] || f.tcp[model.TCPKeepAliveAck] {
		b.AddTag(model.TagKeepAlive)
	}
	if f.tcp[model.TCPZeroWindow] {
		b.AddTag(model.TagZeroWindow)
	}
	if f.tcp[model.TCPWindowUpdate] {
		b.AddTag(model.TagWindowUpdate)
	}
	if len(b.Tags) == 0 && (f.first.TCPInfo == model.TCPAckRecover || f.first.TCPInfo == model.TCPAckDup) {
		b.AddTag(model.TagLossRecover)
	}
	return len(b.Tags) > 0
}

// ruleServerDelay: a burst opening with downlink data or ack means the
// device was waiting on the server.
func (c *classifier) ruleServerDelay(b *model.Burst, f *burstFacts) bool {
	if f.first.Dir != model.DirectionDownlink {
		return false
	}
	if f.first.TCPInfo != model.TCPPlainData && f.first.TCPInfo != model.TCPPlainAck {
		return false
	}
	b.AddTag(model.TagServerDelay)
	return true
}

func (c *classifier) ruleLossDuplicate(b *model.Burst, f *burstFacts) bool {
	if f.first.TCPInfo != model.TCPAckDup && f.first.TCPInfo != model.TCPDataDup {
		return false
	}
	b.AddTag(model.TagLossDuplicate)
	return true
}

func (c *classifier) ruleLossRecover(b *model.Burst, f *burstFacts) bool {
	if f.first.TCPInfo != model.TCPDataRecover && f.first.TCPInfo != model.TCPAckRecover {
		return false
	}
	b.AddTag(model.TagLossRecover)
	return true
}

// ruleUserTriggered: attributes a payload-carrying burst to the nearest
// user interaction within tolerance. A gap below the tight threshold tags
// immediately; a gap within the coarse window additionally requires that no
// earlier burst fills the gap and that average CPU usage over the gap was
// high, in which case the input tag stacks with cpu-busy.
func (c *classifier) ruleUserTriggered(b *model.Burst, f *burstFacts) bool {
	if f.payload <= 0 {
		return false
	}
	time0 := f.first.Timestamp

	for c.uePtr < len(c.userEvents) && c.userEvents[c.uePtr].ReleaseTime < time0-userEventTolerate {
		c.uePtr++
	}

	minGap := math.MaxFloat64
	var nearest *model.UserEvent
	for j := c.uePtr; j < len(c.userEvents); j++ {
		ue := &c.userEvents[j]
		if withinTolerate(ue.PressTime, time0) && time0-ue.PressTime < minGap {
			minGap = time0 - ue.PressTime
			nearest = ue
		}
		if withinTolerate(ue.ReleaseTime, time0) && time0-ue.ReleaseTime < minGap {
			minGap = time0 - ue.ReleaseTime
			nearest = ue
		}
		if ue.PressTime > time0 {
			break
		}
	}
	if nearest == nil {
		return false
	}

	tag := model.TagUserInput
	if nearest.Type.IsScreenRotation() {
		tag = model.TagScreenRotation
	}

	if minGap < c.a.profile.UserInputThreshold {
		b.AddTag(tag)
		return true
	}
	if minGap < userEventTolerate && (c.prevBurst == nil || c.prevBurst.EndTime() < b.BeginTime()-minGap) {
		if c.averageCPU(b.BeginTime(), time0-minGap, time0) > avgCPUUsageThreshold {
			b.AddTag(tag)
			b.AddTag(model.TagCPUBusy)
			return true
		}
	}
	return false
}

// ruleFallback: nothing else explains the burst. Zero payload is unknown;
// otherwise the device itself delayed sending.
func (c *classifier) ruleFallback(b *model.Burst, f *burstFacts) bool {
	if f.payload == 0 {
		b.AddTag(model.TagUnknown)
	} else {
		b.AddTag(model.TagClientDelay)
	}
	return true
}

// withinTolerate reports whether an event time ut falls inside the coarse
// tolerance window before the burst start pt.
func withinTolerate(ut, pt float64) bool {
	return ut < pt && ut > pt-userEventTolerate
}

// averageCPU returns the mean CPU usage of the samples inside (from, to),
// advancing the monotonic sample cursor to the burst's coarse window first.
// Zero when no sample falls inside the interval.
func (c *classifier) averageCPU(burstBegin, from, to float64) float64 {
	for c.cpuPtr < len(c.cpuSamples) && c.cpuSamples[c.cpuPtr].Timestamp < burstBegin-userEventTolerate {
		c.cpuPtr++
	}
	sum := 0.0
	n := 0
	for k := c.cpuPtr; k < len(c.cpuSamples); k++ {
		t := c.cpuSamples[k].Timestamp
		if t >= to {
			break
		}
		if t > from {
			sum += c.cpuSamples[k].Usage
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
