// Package burst implements the burst collection analysis engine: it
// segments a captured packet trace into application-level bursts, classifies
// why each burst occurred, integrates radio energy per burst, detects
// periodic transfers, and rolls the results up into per-category statistics.
package burst

import (
	"BurstSpectra/internal/config"
	"BurstSpectra/internal/model"
)

const (
	// eps is the tolerance used for all floating-point time comparisons.
	eps = 1e-6

	// userEventTolerate is the coarse window within which a user
	// interaction may still explain a burst.
	userEventTolerate = 4.0

	// avgCPUUsageThreshold is the average CPU usage above which a burst
	// following a user event counts as CPU-bound.
	avgCPUUsageThreshold = 0.7
)

// analysis carries the mutable state of one pipeline run.
type analysis struct {
	src     model.TraceSource
	profile config.ProfileConfig
	em      model.EnergyModel

	mss    map[int]bool
	bursts []*model.Burst

	totalEnergy           float64
	longBurstCount        int
	periodicCount         int
	diffPeriodicCount     int
	minPeriodicRepeat     float64
	tightlyCoupledCount   int
	tightlyCoupledTime    float64
	categoryStats         []model.BurstCategoryStat
	shortestPeriodPacket  *model.PacketInfo
	shortestPeriodSession *model.Session
}

// Analyze runs the full burst collection pipeline over one trace. The trace
// inputs must be time-sorted; a returned error indicates an
// internal-consistency violation in the upstream data, not a recoverable
// condition. An empty trace yields an empty result.
func Analyze(src model.TraceSource, profile config.ProfileConfig, em model.EnergyModel) (*model.AnalysisResult, error) {
	a := &analysis{
		src:     src,
		profile: profile,
		em:      em,
		mss:     mssPacketSizes(src.PacketSizeCounts()),
	}

	if err := a.groupIntoBursts(); err != nil {
		return nil, err
	}
	if len(a.bursts) > 0 {
		a.classifyBursts()
		a.computeBurstEnergy()
		a.detectPeriodicBursts()
		a.computeCategoryStats()
		a.validateTightlyCoupled()
		a.validatePeriodicRepeat()
	}

	return &model.AnalysisResult{
		Bursts:                    a.bursts,
		CategoryStats:             a.categoryStats,
		TotalEnergy:               a.totalEnergy,
		LongBurstCount:            a.longBurstCount,
		PeriodicCount:             a.periodicCount,
		DiffPeriodicCount:         a.diffPeriodicCount,
		MinimumPeriodicRepeatTime: a.minPeriodicRepeat,
		TightlyCoupledBurstCount:  a.tightlyCoupledCount,
		TightlyCoupledBurstTime:   a.tightlyCoupledTime,
		ShortestPeriodPacket:      a.shortestPeriodPacket,
		ShortestPeriodSession:     a.shortestPeriodSession,
	}, nil
}
