package burst

import (
	"BurstSpectra/internal/model"
)

// computeCategoryStats rolls per-burst payload, energy and active time up
// into one row per burst category present in the collection. The payload of
// untracked (background) packets across the whole trace joins the
// background category and the grand total, so the percentages account for
// all traffic even when no burst is pure background.
func (a *analysis) computeCategoryStats() {
	energyBy := make(map[model.BurstCategory]float64)
	payloadBy := make(map[model.BurstCategory]int64)
	activeBy := make(map[model.BurstCategory]float64)
	present := make(map[model.BurstCategory]bool)

	var totalPayload int64
	totalEnergy := 0.0
	totalActive := 0.0

	for _, b := range a.bursts {
		cat := b.Category()
		present[cat] = true

		energyBy[cat] += b.Energy
		totalEnergy += b.Energy

		p := int64(b.PayloadBytes())
		payloadBy[cat] += p
		totalPayload += p

		activeBy[cat] += b.ActiveTime
		totalActive += b.ActiveTime
	}

	bkg := backgroundPayload(a.src.Packets())
	payloadBy[model.CategoryBackground] += bkg
	totalPayload += bkg

	stats := make([]model.BurstCategoryStat, 0, len(present))
	for _, cat := range model.Categories {
		if !present[cat] {
			continue
		}
		stat := model.BurstCategoryStat{
			Category:      cat,
			Payload:       payloadBy[cat],
			PayloadPct:    pct(float64(payloadBy[cat]), float64(totalPayload)),
			Energy:        energyBy[cat],
			EnergyPct:     pct(energyBy[cat], totalEnergy),
			ActiveTime:    activeBy[cat],
			ActiveTimePct: pct(activeBy[cat], totalActive),
		}
		if payloadBy[cat] > 0 {
			// Joules per kilobyte-equivalent of payload.
			jpkb := energyBy[cat] / (float64(payloadBy[cat]) * 8.0 / 1000.0)
			stat.JoulesPerKilobyte = &jpkb
		}
		stats = append(stats, stat)
	}
	a.categoryStats = stats
}

// backgroundPayload is the payload of all untracked packets in the trace.
func backgroundPayload(pkts []*model.PacketInfo) int64 {
	var total int64
	for _, p := range pkts {
		if p.AppName == "" {
			total += int64(p.PayloadLen)
		}
	}
	return total
}

func pct(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100.0
}
