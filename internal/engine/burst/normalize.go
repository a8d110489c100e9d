package burst

import (
	"sort"

	"BurstSpectra/internal/model"

	"github.com/pkg/errors"
)

// normalizedTimeline maps every packet to its delay-free timestamp: the
// capture timestamp minus the cumulative duration of all radio promotion
// delays that elapsed before it. Promotion delays are radio wake-up
// artifacts, not application idle time, so removing them keeps a single
// logical transfer from being split by a promotion in the middle.
//
// The returned slice is indexed like pkts. Adjusted timestamps must be
// non-decreasing; a regression indicates unsorted upstream data and is
// returned as an error.
func normalizedTimeline(pkts []*model.PacketInfo, ranges []model.RRCStateRange) ([]float64, error) {
	var promos []model.RRCStateRange
	for _, r := range ranges {
		if r.State.IsPromotion() {
			promos = append(promos, r)
		}
	}
	sort.SliceStable(promos, func(i, j int) bool { return promos[i].BeginTime < promos[j].BeginTime })

	adjusted := make([]float64, len(pkts))
	shift := 0.0
	j := 0
	inRange := false  // the previous sample fell inside promos[j]
	middlePos := 0.0  // timestamp of that sample
	for i, p := range pkts {
		ts := p.Timestamp

		// Promotions fully behind this packet contribute their whole
		// duration; a promotion already partially consumed contributes
		// only the remainder past the last in-range sample.
		for j < len(promos) && ts >= promos[j].EndTime-eps {
			if inRange {
				shift += promos[j].EndTime - middlePos
				inRange = false
			} else {
				shift += promos[j].EndTime - promos[j].BeginTime
			}
			j++
		}

		// A packet inside the current promotion contributes the elapsed
		// part only, tracked so repeated samples inside one range do not
		// double-count.
		if j < len(promos) && promos[j].BeginTime-eps < ts && ts < promos[j].EndTime+eps {
			if inRange {
				shift += ts - middlePos
			} else {
				shift += ts - promos[j].BeginTime
			}
			middlePos = ts
			inRange = true
		}

		adjusted[i] = ts - shift
		if i > 0 && adjusted[i] < adjusted[i-1] {
			return nil, errors.Errorf("normalized timestamp regressed at packet %d: %.6f < %.6f", i, adjusted[i], adjusted[i-1])
		}
	}
	return adjusted, nil
}
