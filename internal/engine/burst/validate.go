package burst

import (
	"math"

	"BurstSpectra/internal/model"
)

// validateTightlyCoupled flags windows of unusually many concurrent bursts:
// at least 4 bursts ending within 60s of a window start, or failing that
// exactly 3 candidates re-checked against a 15s window needing 3. Windows
// never start on a user-triggered or screen-rotation burst, but such bursts
// still count when they fall inside a window. The outer scan jumps past the
// bursts of a matched window.
func (a *analysis) validateTightlyCoupled() {
	setCount := 0
	maxCount := 0
	var maxBurst *model.Burst

	for i := 0; i < len(a.bursts); i++ {
		b := a.bursts[i]
		cat := b.Category()
		if cat == model.CategoryUser || cat == model.CategoryScreenRotation {
			continue
		}
		count := a.burstsWithinWindow(i, 60.0)
		if count >= 4 {
			setCount++
			if count > maxCount {
				maxCount = count
				maxBurst = b
			}
			i += count
		} else if count == 3 {
			count = a.burstsWithinWindow(i, 15.0)
			if count >= 3 {
				setCount++
				if count > maxCount {
					maxCount = count
					maxBurst = b
				}
				i += count
			}
		}
	}

	a.tightlyCoupledCount = setCount
	if maxBurst != nil {
		a.tightlyCoupledTime = maxBurst.BeginTime()
	}
}

// burstsWithinWindow counts the bursts, starting at index i, whose end
// falls inside the window opening at burst i's begin time.
func (a *analysis) burstsWithinWindow(i int, window float64) int {
	end := a.bursts[i].BeginTime() + window
	count := 1
	for j := i + 1; j < len(a.bursts) && a.bursts[j].EndTime() <= end; j++ {
		count++
	}
	return count
}

// validatePeriodicRepeat tracks the minimum begin-time gap between
// consecutive periodic bursts, and records the packet (preferring the
// burst's attributed first-uplink request packet) and session behind it.
func (a *analysis) validatePeriodicRepeat() {
	var lastPeriodic *model.Burst
	seen := 0
	minRepeat := math.MaxFloat64
	var pkt *model.PacketInfo

	for _, b := range a.bursts {
		if b.Category() != model.CategoryPeriodical {
			continue
		}
		if seen != 0 {
			gap := b.BeginTime() - lastPeriodic.BeginTime()
			if gap < minRepeat {
				minRepeat = gap
				pkt = b.FirstUplinkDataPacket
				if pkt == nil {
					pkt = b.BeginPacket()
				}
			}
		}
		lastPeriodic = b
		seen++
	}

	if pkt != nil {
		a.shortestPeriodPacket = pkt
		a.shortestPeriodSession = pkt.Session
	}
	if minRepeat != math.MaxFloat64 {
		a.minPeriodicRepeat = minRepeat
	}
}
