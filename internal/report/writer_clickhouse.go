package report

import (
	"context"
	"fmt"
	"time"

	"BurstSpectra/internal/config"
	"BurstSpectra/internal/logger"
	"BurstSpectra/internal/model"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

const createBurstTableStatement = `
CREATE TABLE IF NOT EXISTS burst_metrics (
    RunID       String,
    TraceName   String,
    BurstIndex  UInt32,
    Category    String,
    BeginTime   Float64,
    EndTime     Float64,
    PacketCount UInt32,
    Payload     UInt64,
    Energy      Float64,
    ActiveTime  Float64,
    WrittenAt   DateTime
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(WrittenAt)
ORDER BY (RunID, BurstIndex);
`

const createStatTableStatement = `
CREATE TABLE IF NOT EXISTS burst_category_stats (
    RunID         String,
    TraceName     String,
    Category      String,
    Payload       UInt64,
    PayloadPct    Float64,
    Energy        Float64,
    EnergyPct     Float64,
    ActiveTime    Float64,
    ActiveTimePct Float64,
    JPKB          Nullable(Float64),
    WrittenAt     DateTime
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(WrittenAt)
ORDER BY (RunID, Category);
`

const createRunTableStatement = `
CREATE TABLE IF NOT EXISTS burst_run_summary (
    RunID              String,
    TraceName          String,
    BurstCount         UInt32,
    TotalEnergy        Float64,
    LongBurstCount     UInt32,
    PeriodicCount      UInt32,
    DiffPeriodicCount  UInt32,
    MinPeriodicRepeat  Float64,
    TightlyCoupled     UInt32,
    TightlyCoupledTime Float64,
    WrittenAt          DateTime
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(WrittenAt)
ORDER BY (RunID);
`

// ClickHouseWriter persists analysis results to ClickHouse, one row per
// burst plus the category rollup and the run summary.
type ClickHouseWriter struct {
	conn driver.Conn
}

// NewClickHouseWriter connects to ClickHouse and ensures the result tables
// exist.
func NewClickHouseWriter(cfg config.ClickHouseConfig) (model.ResultWriter, error) {
	conn, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	for _, stmt := range []string{createBurstTableStatement, createStatTableStatement, createRunTableStatement} {
		if err := conn.Exec(context.Background(), stmt); err != nil {
			return nil, fmt.Errorf("failed to create table: %w", err)
		}
	}
	logger.WriterLog.Info("Successfully connected to ClickHouse and ensured tables exist.")

	return &ClickHouseWriter{conn: conn}, nil
}

// Connect opens a ClickHouse connection and verifies it with a ping.
func Connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: false,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})

	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

// Write inserts the bursts, category stats and run summary of one result.
func (w *ClickHouseWriter) Write(result *model.AnalysisResult) error {
	now := time.Now()

	batch, err := w.conn.PrepareBatch(context.Background(), "INSERT INTO burst_metrics")
	if err != nil {
		return fmt.Errorf("failed to prepare burst batch: %w", err)
	}
	for i, b := range result.Bursts {
		err = batch.Append(
			result.RunID,
			result.TraceName,
			uint32(i),
			b.Category().String(),
			b.BeginTime(),
			b.EndTime(),
			uint32(len(b.Packets())),
			uint64(b.PayloadBytes()),
			b.Energy,
			b.ActiveTime,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to append burst to batch: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send burst batch: %w", err)
	}

	batch, err = w.conn.PrepareBatch(context.Background(), "INSERT INTO burst_category_stats")
	if err != nil {
		return fmt.Errorf("failed to prepare stat batch: %w", err)
	}
	for _, stat := range result.CategoryStats {
		err = batch.Append(
			result.RunID,
			result.TraceName,
			stat.Category.String(),
			uint64(stat.Payload),
			stat.PayloadPct,
			stat.Energy,
			stat.EnergyPct,
			stat.ActiveTime,
			stat.ActiveTimePct,
			stat.JoulesPerKilobyte,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to append stat to batch: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send stat batch: %w", err)
	}

	batch, err = w.conn.PrepareBatch(context.Background(), "INSERT INTO burst_run_summary")
	if err != nil {
		return fmt.Errorf("failed to prepare summary batch: %w", err)
	}
	err = batch.Append(
		result.RunID,
		result.TraceName,
		uint32(len(result.Bursts)),
		result.TotalEnergy,
		uint32(result.LongBurstCount),
		uint32(result.PeriodicCount),
		uint32(result.DiffPeriodicCount),
		result.MinimumPeriodicRepeatTime,
		uint32(result.TightlyCoupledBurstCount),
		result.TightlyCoupledBurstTime,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to append summary to batch: %w", err)
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send summary batch: %w", err)
	}

	logger.WriterLog.Infof("Wrote %d bursts and %d category rows to ClickHouse for run '%s'",
		len(result.Bursts), len(result.CategoryStats), result.RunID)
	return nil
}
