package burst

import (
	"math"
)

// computeBurstEnergy overlays the burst collection on the radio-state
// timeline and assigns each burst its energy and active radio time. A
// burst's energy window runs from its begin time to the next burst's begin
// time, so inter-burst idle (tail) energy is charged to the burst that
// caused the radio activity. The last burst's window extends to the end of
// the radio timeline. The state ranges are walked with a single
// forward-only pointer across all windows.
func (a *analysis) computeBurstEnergy() {
	rrc := a.src.RRCStateRanges()
	if len(rrc) == 0 {
		return
	}
	pkts := a.src.Packets()

	p := 0
	time1 := rrc[0].BeginTime
	total := 0.0
	for i, b := range a.bursts {
		var time2 float64
		if i+1 < len(a.bursts) {
			time2 = a.bursts[i+1].BeginTime()
		} else {
			time2 = rrc[len(rrc)-1].EndTime
		}

		e := 0.0
		active := 0.0

		// Skip ranges fully behind the window, then consume the first
		// overlapping range up to its end if it closes inside the window.
		for p < len(rrc) {
			r := rrc[p]
			if r.EndTime < time1 {
				p++
				continue
			}
			if time2 > r.EndTime {
				e += a.em.Energy(time1, r.EndTime, r.State, pkts)
				if r.State.IsActive() {
					active += r.EndTime - time1
				}
				p++
			}
			break
		}

		// Consume whole ranges until one reaches past the window end,
		// which contributes its clipped overlap and stays current for the
		// next window.
		for p < len(rrc) {
			r := rrc[p]
			begin := math.Max(r.BeginTime, time1)
			if r.EndTime < time2 {
				e += a.em.Energy(begin, r.EndTime, r.State, pkts)
				if r.State.IsActive() {
					active += r.EndTime - begin
				}
				p++
			} else {
				e += a.em.Energy(begin, time2, r.State, pkts)
				if r.State.IsActive() {
					active += time2 - begin
				}
				break
			}
		}

		b.Energy = e
		b.ActiveTime = active
		total += e
		time1 = time2
	}
	a.totalEnergy = total
}
