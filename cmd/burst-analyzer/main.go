package main

import (
	"flag"
	"os"
	"path/filepath"

	"BurstSpectra/internal/config"
	"BurstSpectra/internal/engine/burst"
	"BurstSpectra/internal/engine/radio"
	"BurstSpectra/internal/logger"
	"BurstSpectra/internal/model"
	"BurstSpectra/internal/notification"
	"BurstSpectra/internal/report"
	"BurstSpectra/internal/trace"
	"BurstSpectra/pkg/pcap"

	"github.com/google/gopacket"
	"github.com/google/uuid"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	if flag.NArg() < 1 {
		logger.InitLog("info", false)
		logger.MainLog.Fatal("Usage: burst-analyzer [-config path] <path_to_pcap_file>")
	}
	pcapFilePath := flag.Arg(0)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.InitLog("info", false)
		logger.MainLog.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.InitLog(cfg.Log.Level, cfg.Log.ReportCaller); err != nil {
		logger.MainLog.Warnf("Bad log level in config, using info: %v", err)
	}
	logger.CfgLog.Infof("Configuration loaded from %s", *configPath)

	// Decode the capture into a trace.
	reader, err := pcap.NewReader(pcapFilePath)
	if err != nil {
		logger.MainLog.Fatalf("Failed to open pcap file: %v", err)
	}
	builder := trace.NewBuilder(cfg.Trace)
	count := 0
	reader.ReadPackets(func(pkt gopacket.Packet) {
		builder.AddPacket(pkt)
		count++
	})
	reader.Close()
	logger.TraceLog.Infof("Read %d packets from '%s' (%d skipped)", count, pcapFilePath, builder.Skipped())

	tr, err := builder.Build()
	if err != nil {
		logger.TraceLog.Fatalf("Failed to assemble trace: %v", err)
	}
	logger.TraceLog.Infof("Assembled trace: %d packets, %d sessions, %d user events, %d cpu samples",
		len(tr.Packets()), len(tr.Sessions()), len(tr.UserEvents()), len(tr.CPUActivities()))

	// Derive the radio timeline and run the analysis.
	tr.SetRRCStateRanges(radio.BuildStateRanges(tr.Packets(), cfg.Radio))

	result, err := burst.Analyze(tr, cfg.Profile, radio.NewModel(cfg.Radio))
	if err != nil {
		logger.EngineLog.Fatalf("Analysis failed: %v", err)
	}
	result.RunID = uuid.NewString()
	result.TraceName = filepath.Base(pcapFilePath)
	logger.EngineLog.Infof("Analysis run %s: %d bursts, %.4f J total energy",
		result.RunID, len(result.Bursts), result.TotalEnergy)

	// Persist the result.
	var writers []model.ResultWriter
	if cfg.Writers.Text.Enabled {
		writers = append(writers, report.NewTextWriter(cfg.Writers.Text))
	}
	if cfg.Writers.ClickHouse.Enabled {
		w, err := report.NewClickHouseWriter(cfg.Writers.ClickHouse)
		if err != nil {
			logger.WriterLog.Fatalf("Failed to create ClickHouse writer: %v", err)
		}
		writers = append(writers, w)
	}
	failed := false
	for _, w := range writers {
		if err := w.Write(result); err != nil {
			logger.WriterLog.Errorf("Failed to write result: %v", err)
			failed = true
		}
	}

	if cfg.Notifier.Enabled {
		n, err := notification.NewNATSNotifier(cfg.Notifier)
		if err != nil {
			logger.NotifLog.Errorf("Failed to create notifier: %v", err)
		} else {
			var notifier model.Notifier = n
			if err := notification.AnnounceRun(notifier, result); err != nil {
				logger.NotifLog.Errorf("Failed to announce run: %v", err)
			}
			n.Close()
		}
	}

	if failed {
		os.Exit(1)
	}
}
