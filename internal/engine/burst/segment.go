package burst

import (
	"BurstSpectra/internal/model"

	"github.com/pkg/errors"
)

// mssPacketSizes derives the set of payload sizes treated as full-size
// segments from the trace's payload-size histogram. Sizes above 1000 bytes
// seen more than once are candidates; when any exist, only those carrying
// more than 30% of all large packets are kept, otherwise the conventional
// 1460 is assumed.
func mssPacketSizes(sizeCounts map[int]int) map[int]bool {
	mss := make(map[int]bool)
	var totalLarge int64
	for size, count := range sizeCounts {
		if size > 1000 && count > 1 {
			totalLarge += int64(count)
		}
	}
	if totalLarge == 0 {
		mss[1460] = true
		return mss
	}
	for size, count := range sizeCounts {
		if size > 1000 && count > 1 {
			if float64(count)/float64(totalLarge) > 0.3 {
				mss[size] = true
			}
		}
	}
	return mss
}

// groupIntoBursts segments the trace packets into the burst collection:
// threshold split, delay-free merge, back-reference assignment and
// inter-burst gap classification.
func (a *analysis) groupIntoBursts() error {
	pkts := a.src.Packets()
	if len(pkts) == 0 {
		a.bursts = nil
		return nil
	}
	burstThresh := a.profile.BurstThreshold

	// Pass 1: split whenever the inter-packet gap exceeds the threshold,
	// unless the previous packet is a full-size segment (mid-transfer).
	var split []*model.Burst
	start := 0
	for i := 1; i < len(pkts); i++ {
		gap := pkts[i].Timestamp - pkts[i-1].Timestamp
		if gap > burstThresh && !a.mss[pkts[i-1].PayloadLen] {
			split = append(split, model.NewBurst(pkts[start:i]))
			start = i
		}
	}
	split = append(split, model.NewBurst(pkts[start:]))

	// Pass 2: merge adjacent bursts whose gap on the delay-free timeline
	// is still below the threshold. Merging is left-associative: a merged
	// burst keeps absorbing followers until a real gap appears.
	adjusted, err := normalizedTimeline(pkts, a.src.RRCStateRanges())
	if err != nil {
		return err
	}
	merged := make([]*model.Burst, 0, len(split))
	cur := split[0]
	curEnd := len(cur.Packets()) // index one past cur's last packet in pkts
	for i := 0; i < len(split)-1; i++ {
		next := split[i+1]
		if adjusted[curEnd]-adjusted[curEnd-1] < burstThresh {
			cur.Merge(next)
		} else {
			merged = append(merged, cur)
			cur = next
		}
		curEnd += len(next.Packets())
	}
	merged = append(merged, cur)
	a.bursts = merged

	// Pass 3: assign each packet its burst back-reference.
	for bi, b := range a.bursts {
		for _, p := range b.Packets() {
			p.BurstIndex = bi
		}
	}

	// Pass 4: classify inter-burst gaps. The final burst always counts as
	// long-gap. A gap below the burst threshold here means the merge pass
	// corrupted the collection.
	n := len(a.bursts)
	for i, b := range a.bursts {
		if i == n-1 {
			b.LongGapToNext = true
			continue
		}
		ibt := a.bursts[i+1].BeginTime() - b.EndTime()
		if ibt < burstThresh-eps {
			return errors.Errorf("inter-burst gap %.6fs below burst threshold %.6fs after burst %d", ibt, burstThresh, i)
		}
		b.LongGapToNext = ibt > a.profile.LongBurstGapThreshold
	}
	return nil
}
