// Package report persists analysis results: a human-readable text report
// and ClickHouse tables for the results API.
package report

import (
	"fmt"
	"io"
	"os"

	"BurstSpectra/internal/config"
	"BurstSpectra/internal/logger"
	"BurstSpectra/internal/model"
)

// TextWriter renders an analysis result as a plain-text report.
type TextWriter struct {
	path string
}

// NewTextWriter creates a text writer. An empty path writes to stdout.
func NewTextWriter(cfg config.TextWriterConfig) model.ResultWriter {
	return &TextWriter{path: cfg.Path}
}

// Write renders the burst table, the category statistics and the scalar
// summary of one run.
func (w *TextWriter) Write(result *model.AnalysisResult) error {
	var out io.Writer = os.Stdout
	if w.path != "" {
		file, err := os.Create(w.path)
		if err != nil {
			return fmt.Errorf("failed to create report file '%s': %w", w.path, err)
		}
		defer file.Close()
		out = file
	}

	fmt.Fprintf(out, "Burst analysis %s (trace %s)\n\n", result.RunID, result.TraceName)

	fmt.Fprintf(out, "%-5s %-15s %10s %10s %8s %10s %10s %s\n",
		"#", "category", "begin", "end", "packets", "payload", "energy", "active")
	for i, b := range result.Bursts {
		fmt.Fprintf(out, "%-5d %-15s %10.3f %10.3f %8d %10d %10.4f %.3f\n",
			i, b.Category(), b.BeginTime(), b.EndTime(), len(b.Packets()), b.PayloadBytes(), b.Energy, b.ActiveTime)
	}

	fmt.Fprintf(out, "\n%-15s %12s %8s %10s %8s %10s %8s %10s\n",
		"category", "payload", "pct", "energy", "pct", "active", "pct", "J/KB")
	for _, stat := range result.CategoryStats {
		jpkb := "-"
		if stat.JoulesPerKilobyte != nil {
			jpkb = fmt.Sprintf("%.4f", *stat.JoulesPerKilobyte)
		}
		fmt.Fprintf(out, "%-15s %12d %7.2f%% %10.4f %7.2f%% %10.3f %7.2f%% %10s\n",
			stat.Category, stat.Payload, stat.PayloadPct, stat.Energy, stat.EnergyPct,
			stat.ActiveTime, stat.ActiveTimePct, jpkb)
	}

	fmt.Fprintf(out, "\ntotal energy:             %.4f J\n", result.TotalEnergy)
	fmt.Fprintf(out, "long bursts:              %d\n", result.LongBurstCount)
	fmt.Fprintf(out, "periodic bursts:          %d (%d distinct origins)\n", result.PeriodicCount, result.DiffPeriodicCount)
	fmt.Fprintf(out, "min periodic repeat:      %.3f s\n", result.MinimumPeriodicRepeatTime)
	fmt.Fprintf(out, "tightly coupled windows:  %d (largest at %.3f s)\n",
		result.TightlyCoupledBurstCount, result.TightlyCoupledBurstTime)

	if w.path != "" {
		logger.WriterLog.Infof("Wrote text report for run %s to %s", result.RunID, w.path)
	}
	return nil
}
