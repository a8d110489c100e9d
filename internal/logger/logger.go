// Package logger provides structured loggers for the components of
// BurstSpectra. It wraps logrus and exposes category-specific entries; the
// level and caller reporting are set once from configuration via InitLog.
package logger

import (
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

const moduleName = "BurstSpectra"

var (
	initOnce sync.Once

	// MainLog is the primary logger for lifecycle events.
	MainLog *log.Entry

	// CfgLog is used for configuration loading and validation.
	CfgLog *log.Entry

	// TraceLog is for pcap reading and trace assembly.
	TraceLog *log.Entry

	// EngineLog is for the burst analysis pipeline.
	EngineLog *log.Entry

	// WriterLog is for result persistence (text, ClickHouse).
	WriterLog *log.Entry

	// ApiLog is for the results API server.
	ApiLog *log.Entry

	// NotifLog is for run-completion notifications.
	NotifLog *log.Entry
)

// InitLog configures the global logrus settings and initializes all
// category loggers. Safe to call multiple times; the level and caller flag
// are re-applied on every call.
func InitLog(levelString string, reportCaller bool) error {
	initOnce.Do(func() {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
		log.SetLevel(log.InfoLevel)

		MainLog = log.WithFields(log.Fields{"module": moduleName, "category": "MAIN"})
		CfgLog = log.WithFields(log.Fields{"module": moduleName, "category": "CFG"})
		TraceLog = log.WithFields(log.Fields{"module": moduleName, "category": "TRACE"})
		EngineLog = log.WithFields(log.Fields{"module": moduleName, "category": "ENGINE"})
		WriterLog = log.WithFields(log.Fields{"module": moduleName, "category": "WRITER"})
		ApiLog = log.WithFields(log.Fields{"module": moduleName, "category": "API"})
		NotifLog = log.WithFields(log.Fields{"module": moduleName, "category": "NOTIF"})
	})

	level, err := parseLogLevel(levelString)
	if err != nil {
		log.SetLevel(log.InfoLevel)
		log.SetReportCaller(reportCaller)
		return err
	}
	log.SetLevel(level)
	log.SetReportCaller(reportCaller)
	return nil
}

// parseLogLevel converts a case-insensitive level string into a logrus.Level.
func parseLogLevel(levelString string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(levelString)) {
	case "trace":
		return log.TraceLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	case "fatal":
		return log.FatalLevel, nil
	case "panic":
		return log.PanicLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level: %s", levelString)
	}
}
