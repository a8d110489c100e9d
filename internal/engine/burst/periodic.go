package burst

import (
	"sort"

	"BurstSpectra/internal/model"
)

// correlationSample is one unordered pair of timestamps from the same named
// series: the inter-arrival duration, the interval's start time, and the
// indices of the two samples it connects. Ephemeral to periodicity
// detection.
type correlationSample struct {
	duration   float64
	beginTime  float64
	beginEvent int
	endEvent   int
}

// detectPeriodicBursts finds remote peers, HTTP hosts and request objects
// whose access times repeat at a stable interval, then re-tags the
// client-delay bursts those series explain as periodical.
func (a *analysis) detectPeriodicBursts() {
	hostTimes := make(map[string][]float64)
	objTimes := make(map[string][]float64)
	ipTimes := make(map[string][]float64)

	for _, s := range a.src.Sessions() {
		if len(s.Packets) > 0 && s.RemoteIP != nil {
			p := s.Packets[0]
			if p.TCPInfo == model.TCPEstablish {
				key := s.RemoteIP.String()
				ipTimes[key] = append(ipTimes[key], p.Timestamp)
			}
		}
		for _, rr := range s.Requests {
			if rr.Direction != model.HTTPRequest || rr.FirstDataPacket == nil {
				continue
			}
			ts := rr.FirstDataPacket.Timestamp
			if rr.HostName != "" {
				hostTimes[rr.HostName] = append(hostTimes[rr.HostName], ts)
			}
			if rr.ObjName != "" {
				obj := rr.ObjNameWithoutParams()
				objTimes[obj] = append(objTimes[obj], ts)
			}
		}
	}

	periodicHosts := a.periodicSeries(hostTimes)
	periodicObjs := a.periodicSeries(objTimes)
	periodicIPs := a.periodicSeries(ipTimes)

	// Distinct periodic origins (peer addresses, hosts, objects).
	matched := make(map[string]bool)

	for _, b := range a.bursts {
		if !b.HasTag(model.TagClientDelay) {
			continue
		}

		first := b.BeginPacket()
		if key, ok := matchPeriodicIP(first, periodicIPs); ok {
			a.periodicCount++
			b.SetTag(model.TagPeriodical)
			matched[key] = true
			continue
		}

		var firstUplink *model.PacketInfo
		for _, p := range b.Packets() {
			if p.Dir == model.DirectionUplink && p.PayloadLen > 0 {
				firstUplink = p
				break
			}
		}
		if firstUplink == nil {
			continue
		}

	sessions:
		for _, s := range a.src.Sessions() {
			for _, rr := range s.Requests {
				if rr.Direction != model.HTTPRequest || rr.FirstDataPacket != firstUplink {
					continue
				}
				hostOK := periodicHosts[rr.HostName]
				objOK := periodicObjs[rr.ObjNameWithoutParams()]
				if !hostOK && !objOK {
					continue
				}
				a.periodicCount++
				b.SetTag(model.TagPeriodical)
				b.FirstUplinkDataPacket = firstUplink
				if hostOK {
					matched[rr.HostName] = true
				} else {
					matched[rr.ObjNameWithoutParams()] = true
				}
				break sessions
			}
		}
	}
	a.diffPeriodicCount = len(matched)
}

// periodicSeries returns the keys whose timestamp series self-correlate.
func (a *analysis) periodicSeries(series map[string][]float64) map[string]bool {
	out := make(map[string]bool)
	for key, times := range series {
		if a.selfCorrelated(times) {
			out[key] = true
		}
	}
	return out
}

// matchPeriodicIP reports whether the packet's destination or source
// address belongs to a periodic peer, preferring the destination.
func matchPeriodicIP(p *model.PacketInfo, periodicIPs map[string]bool) (string, bool) {
	if p.DstIP != nil {
		if key := p.DstIP.String(); periodicIPs[key] {
			return key, true
		}
	}
	if p.SrcIP != nil {
		if key := p.SrcIP.String(); periodicIPs[key] {
			return key, true
		}
	}
	return "", false
}

// selfCorrelated applies the self-correlation test: form every pair of
// samples, sort the pairs by inter-arrival duration, and sweep a cluster
// window whose durations stay within the cycle tolerance of the window's
// first (smallest) duration. A window whose mean duration exceeds the
// minimum cycle is scored by its longest non-overlapping chain; the series
// is periodic when the best chain reaches the minimum sample count with a
// positive candidate cycle.
func (a *analysis) selfCorrelated(times []float64) bool {
	n := len(times)
	if n <= 3 {
		return false
	}

	samples := make([]correlationSample, 0, n*(n-1)/2)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			t1, t2 := times[i], times[j]
			if t1 <= t2 {
				samples = append(samples, correlationSample{duration: t2 - t1, beginTime: t1, beginEvent: i, endEvent: j})
			} else {
				samples = append(samples, correlationSample{duration: t1 - t2, beginTime: t2, beginEvent: j, endEvent: i})
			}
		}
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].duration < samples[j].duration })

	minCycle := a.profile.PeriodMinCycle
	cycleTol := a.profile.PeriodCycleTol
	minSamples := a.profile.PeriodMinSamples

	bestChain := 0
	cycle := 0.0
	for i := range samples {
		var cluster []correlationSample
		sum := 0.0
		for j := i; j < len(samples) && samples[j].duration-samples[i].duration < cycleTol; j++ {
			cluster = append(cluster, samples[j])
			sum += samples[j].duration
		}
		avg := sum / float64(len(cluster))
		if avg > minCycle {
			if size := longestNonOverlapChain(cluster); size > bestChain {
				bestChain = size
				cycle = avg
			}
		}
	}
	return bestChain >= minSamples && cycle > 0
}

// longestNonOverlapChain returns the length of the longest sequence of
// cluster intervals that chain end-to-start without endpoint reuse: the
// longest path in the DAG induced by endEvent → beginEvent adjacency,
// computed by dynamic programming over start-time order.
func longestNonOverlapChain(samples []correlationSample) int {
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].beginTime < samples[j].beginTime })

	best := 0
	opt := make([]int, len(samples))
	for i, s := range samples {
		chain := 1
		for j := 0; j < i; j++ {
			if samples[j].endEvent == s.beginEvent && opt[j] >= chain {
				chain = opt[j] + 1
			}
		}
		opt[i] = chain
		if chain > best {
			best = chain
		}
	}
	return best
}
