package model

// BurstCategoryStat is the rollup of one burst category across a trace.
// Percentages are of the grand totals over all categories.
type BurstCategoryStat struct {
	Category       BurstCategory
	Payload        int64
	PayloadPct     float64
	Energy         float64
	EnergyPct      float64
	ActiveTime     float64
	ActiveTimePct  float64

	// JoulesPerKilobyte is nil when the category carried no payload.
	JoulesPerKilobyte *float64
}

// AnalysisResult is the read-only outcome of one analysis run, consumed by
// the writers, the notifier, and the results API.
type AnalysisResult struct {
	RunID     string
	TraceName string

	Bursts        []*Burst
	CategoryStats []BurstCategoryStat

	TotalEnergy               float64
	LongBurstCount            int
	PeriodicCount             int
	DiffPeriodicCount         int
	MinimumPeriodicRepeatTime float64
	TightlyCoupledBurstCount  int
	TightlyCoupledBurstTime   float64

	// ShortestPeriodPacket/Session identify the request behind the
	// shortest periodic repeat; nil when no periodic bursts were found.
	ShortestPeriodPacket  *PacketInfo
	ShortestPeriodSession *Session
}
