// Package query reads persisted analysis results back out of ClickHouse
// for the results API.
package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"BurstSpectra/internal/config"
	"BurstSpectra/internal/report"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// RunSummary is one analysis run as stored in burst_run_summary.
type RunSummary struct {
	RunID              string    `json:"run_id"`
	TraceName          string    `json:"trace_name"`
	BurstCount         uint32    `json:"burst_count"`
	TotalEnergy        float64   `json:"total_energy"`
	LongBurstCount     uint32    `json:"long_burst_count"`
	PeriodicCount      uint32    `json:"periodic_count"`
	DiffPeriodicCount  uint32    `json:"diff_periodic_count"`
	MinPeriodicRepeat  float64   `json:"min_periodic_repeat"`
	TightlyCoupled     uint32    `json:"tightly_coupled"`
	TightlyCoupledTime float64   `json:"tightly_coupled_time"`
	WrittenAt          time.Time `json:"written_at"`
}

// BurstRow is one burst of a run as stored in burst_metrics.
type BurstRow struct {
	BurstIndex  uint32  `json:"burst_index"`
	Category    string  `json:"category"`
	BeginTime   float64 `json:"begin_time"`
	EndTime     float64 `json:"end_time"`
	PacketCount uint32  `json:"packet_count"`
	Payload     uint64  `json:"payload"`
	Energy      float64 `json:"energy"`
	ActiveTime  float64 `json:"active_time"`
}

// CategoryStatRow is one category rollup row of a run.
type CategoryStatRow struct {
	Category      string   `json:"category"`
	Payload       uint64   `json:"payload"`
	PayloadPct    float64  `json:"payload_pct"`
	Energy        float64  `json:"energy"`
	EnergyPct     float64  `json:"energy_pct"`
	ActiveTime    float64  `json:"active_time"`
	ActiveTimePct float64  `json:"active_time_pct"`
	JPKB          *float64 `json:"jpkb"`
}

// BurstFilter narrows a burst listing.
type BurstFilter struct {
	Category  string
	MinEnergy float64
}

// CategoryTotal is the aggregate of one burst category across runs.
type CategoryTotal struct {
	Category   string  `json:"category"`
	RunCount   uint64  `json:"run_count"`
	Payload    uint64  `json:"payload"`
	Energy     float64 `json:"energy"`
	ActiveTime float64 `json:"active_time"`
}

// Querier defines the read operations over persisted analysis results.
type Querier interface {
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
	GetRun(ctx context.Context, runID string) (*RunSummary, error)
	ListBursts(ctx context.Context, runID string, filter BurstFilter) ([]BurstRow, error)
	CategoryStats(ctx context.Context, runID string) ([]CategoryStatRow, error)
	AggregateCategories(ctx context.Context, traceName string) ([]CategoryTotal, error)
}

// clickhouseQuerier implements the Querier interface for ClickHouse.
type clickhouseQuerier struct {
	conn driver.Conn
}

// NewClickHouseQuerier creates a new querier for ClickHouse.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	conn, err := report.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &clickhouseQuerier{conn: conn}, nil
}

// ListRuns returns the most recent runs, newest first.
func (q *clickhouseQuerier) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := q.conn.Query(ctx, `
		SELECT RunID, TraceName, BurstCount, TotalEnergy, LongBurstCount,
		       PeriodicCount, DiffPeriodicCount, MinPeriodicRepeat,
		       TightlyCoupled, TightlyCoupledTime, WrittenAt
		FROM burst_run_summary
		ORDER BY WrittenAt DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		if err := rows.Scan(&run.RunID, &run.TraceName, &run.BurstCount, &run.TotalEnergy,
			&run.LongBurstCount, &run.PeriodicCount, &run.DiffPeriodicCount,
			&run.MinPeriodicRepeat, &run.TightlyCoupled, &run.TightlyCoupledTime,
			&run.WrittenAt); err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// GetRun returns the summary of one run.
func (q *clickhouseQuerier) GetRun(ctx context.Context, runID string) (*RunSummary, error) {
	row := q.conn.QueryRow(ctx, `
		SELECT RunID, TraceName, BurstCount, TotalEnergy, LongBurstCount,
		       PeriodicCount, DiffPeriodicCount, MinPeriodicRepeat,
		       TightlyCoupled, TightlyCoupledTime, WrittenAt
		FROM burst_run_summary
		WHERE RunID = ?
	`, runID)

	var run RunSummary
	if err := row.Scan(&run.RunID, &run.TraceName, &run.BurstCount, &run.TotalEnergy,
		&run.LongBurstCount, &run.PeriodicCount, &run.DiffPeriodicCount,
		&run.MinPeriodicRepeat, &run.TightlyCoupled, &run.TightlyCoupledTime,
		&run.WrittenAt); err != nil {
		return nil, fmt.Errorf("failed to scan run summary: %w", err)
	}
	return &run, nil
}

// ListBursts returns a run's bursts in trace order, optionally filtered.
func (q *clickhouseQuerier) ListBursts(ctx context.Context, runID string, filter BurstFilter) ([]BurstRow, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT BurstIndex, Category, BeginTime, EndTime, PacketCount,
		       Payload, Energy, ActiveTime
		FROM burst_metrics
	`)

	whereClauses := []string{"RunID = ?"}
	args := []interface{}{runID}

	if filter.Category != "" {
		whereClauses = append(whereClauses, "Category = ?")
		args = append(args, filter.Category)
	}
	if filter.MinEnergy > 0 {
		whereClauses = append(whereClauses, "Energy >= ?")
		args = append(args, filter.MinEnergy)
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(whereClauses, " AND "))
	queryBuilder.WriteString(" ORDER BY BurstIndex")

	rows, err := q.conn.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bursts: %w", err)
	}
	defer rows.Close()

	var bursts []BurstRow
	for rows.Next() {
		var b BurstRow
		if err := rows.Scan(&b.BurstIndex, &b.Category, &b.BeginTime, &b.EndTime,
			&b.PacketCount, &b.Payload, &b.Energy, &b.ActiveTime); err != nil {
			return nil, fmt.Errorf("failed to scan burst row: %w", err)
		}
		bursts = append(bursts, b)
	}
	return bursts, nil
}

// CategoryStats returns a run's category rollup.
func (q *clickhouseQuerier) CategoryStats(ctx context.Context, runID string) ([]CategoryStatRow, error) {
	rows, err := q.conn.Query(ctx, `
		SELECT Category, Payload, PayloadPct, Energy, EnergyPct,
		       ActiveTime, ActiveTimePct, JPKB
		FROM burst_category_stats
		WHERE RunID = ?
		ORDER BY Category
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category stats: %w", err)
	}
	defer rows.Close()

	var stats []CategoryStatRow
	for rows.Next() {
		var s CategoryStatRow
		if err := rows.Scan(&s.Category, &s.Payload, &s.PayloadPct, &s.Energy, &s.EnergyPct,
			&s.ActiveTime, &s.ActiveTimePct, &s.JPKB); err != nil {
			return nil, fmt.Errorf("failed to scan category stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, nil
}

// AggregateCategories sums payload, energy and active time per category
// across all runs, optionally restricted to one trace name.
func (q *clickhouseQuerier) AggregateCategories(ctx context.Context, traceName string) ([]CategoryTotal, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT
			Category,
			COUNT(DISTINCT RunID) AS RunCount,
			SUM(Payload) AS TotalPayload,
			SUM(Energy) AS TotalEnergy,
			SUM(ActiveTime) AS TotalActive
		FROM burst_category_stats
	`)

	args := []interface{}{}
	if traceName != "" {
		queryBuilder.WriteString(" WHERE TraceName = ?")
		args = append(args, traceName)
	}
	queryBuilder.WriteString(" GROUP BY Category ORDER BY TotalEnergy DESC")

	rows, err := q.conn.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var t CategoryTotal
		if err := rows.Scan(&t.Category, &t.RunCount, &t.Payload, &t.Energy, &t.ActiveTime); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, nil
}
