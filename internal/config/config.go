package config

import (
	"fmt"
	"net"
	"os"

	"gopkg.in/yaml.v3"
)

// ProfileConfig holds the tunable thresholds of the burst analysis. All
// durations are seconds, sizes are bytes.
type ProfileConfig struct {
	BurstThreshold        float64 `yaml:"burst_threshold"`
	LongBurstGapThreshold float64 `yaml:"long_burst_gap_threshold"`
	LargeBurstDuration    float64 `yaml:"large_burst_duration"`
	LargeBurstSize        int     `yaml:"large_burst_size"`
	UserInputThreshold    float64 `yaml:"user_input_threshold"`
	PeriodMinCycle        float64 `yaml:"period_min_cycle"`
	PeriodCycleTol        float64 `yaml:"period_cycle_tol"`
	PeriodMinSamples      int     `yaml:"period_min_samples"`
}

// TraceConfig controls trace assembly.
type TraceConfig struct {
	// DeviceIP is the capture device's address, used to decide packet
	// direction. Empty means infer it from TCP handshakes.
	DeviceIP string `yaml:"device_ip"`

	// AppPorts maps a remote TCP port to the application name attributed
	// to traffic on that port. Unmapped traffic counts as background.
	AppPorts map[uint16]string `yaml:"app_ports"`

	// UserEventLog and CPULog are optional paths to the behavioral logs
	// captured alongside the pcap.
	UserEventLog string `yaml:"user_event_log"`
	CPULog       string `yaml:"cpu_log"`
}

// RadioConfig parameterizes the 3G radio-state machine and the per-state
// power table of the energy model. Powers are watts.
type RadioConfig struct {
	PromotionTime float64 `yaml:"promotion_time"`
	DCHTimeout    float64 `yaml:"dch_timeout"`
	DCHTailTime   float64 `yaml:"dch_tail_time"`

	PowerPromotion float64 `yaml:"power_promotion"`
	PowerDCH       float64 `yaml:"power_dch"`
	PowerDCHTail   float64 `yaml:"power_dch_tail"`
	PowerFACH      float64 `yaml:"power_fach"`
	PowerFACHTail  float64 `yaml:"power_fach_tail"`
	PowerIdle      float64 `yaml:"power_idle"`
}

// ClickHouseConfig holds the connection settings for the ClickHouse writer
// and the results API querier.
type ClickHouseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// TextWriterConfig holds the settings for the plain-text report writer.
type TextWriterConfig struct {
	Enabled bool `yaml:"enabled"`
	// Path of the report file; empty writes to stdout.
	Path string `yaml:"path"`
}

// WritersConfig groups the result writers.
type WritersConfig struct {
	Text       TextWriterConfig `yaml:"text"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// APIConfig holds the results API server settings.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// NotifierConfig holds the NATS run-completion notifier settings.
type NotifierConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level        string `yaml:"level"`
	ReportCaller bool   `yaml:"report_caller"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Profile  ProfileConfig  `yaml:"profile"`
	Trace    TraceConfig    `yaml:"trace"`
	Radio    RadioConfig    `yaml:"radio"`
	Writers  WritersConfig  `yaml:"writers"`
	API      APIConfig      `yaml:"api"`
	Notifier NotifierConfig `yaml:"notifier"`
	Log      LogConfig      `yaml:"log"`
}

// LoadConfig reads the configuration from a YAML file, applies defaults and
// validates it.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied, used when no
// config file is given.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	p := &cfg.Profile
	if p.BurstThreshold == 0 {
		p.BurstThreshold = 1.5
	}
	if p.LongBurstGapThreshold == 0 {
		p.LongBurstGapThreshold = 8.0
	}
	if p.LargeBurstDuration == 0 {
		p.LargeBurstDuration = 5.0
	}
	if p.LargeBurstSize == 0 {
		p.LargeBurstSize = 100000
	}
	if p.UserInputThreshold == 0 {
		p.UserInputThreshold = 1.0
	}
	if p.PeriodMinCycle == 0 {
		p.PeriodMinCycle = 5.0
	}
	if p.PeriodCycleTol == 0 {
		p.PeriodCycleTol = 1.0
	}
	if p.PeriodMinSamples == 0 {
		p.PeriodMinSamples = 4
	}

	r := &cfg.Radio
	if r.PromotionTime == 0 {
		r.PromotionTime = 2.0
	}
	if r.DCHTimeout == 0 {
		r.DCHTimeout = 5.0
	}
	if r.DCHTailTime == 0 {
		r.DCHTailTime = 8.0
	}
	if r.PowerPromotion == 0 {
		r.PowerPromotion = 0.53
	}
	if r.PowerDCH == 0 {
		r.PowerDCH = 0.7
	}
	if r.PowerDCHTail == 0 {
		r.PowerDCHTail = 0.7
	}
	if r.PowerFACH == 0 {
		r.PowerFACH = 0.35
	}
	if r.PowerFACHTail == 0 {
		r.PowerFACHTail = 0.35
	}

	if cfg.API.ListenAddr == "" {
		cfg.API.ListenAddr = ":8080"
	}
	if cfg.Writers.ClickHouse.Port == 0 {
		cfg.Writers.ClickHouse.Port = 9000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func validate(cfg *Config) error {
	p := cfg.Profile
	if p.BurstThreshold <= 0 {
		return fmt.Errorf("profile.burst_threshold must be positive, got %v", p.BurstThreshold)
	}
	if p.LongBurstGapThreshold < p.BurstThreshold {
		return fmt.Errorf("profile.long_burst_gap_threshold (%v) must not be below burst_threshold (%v)",
			p.LongBurstGapThreshold, p.BurstThreshold)
	}
	if p.PeriodMinSamples < 1 {
		return fmt.Errorf("profile.period_min_samples must be at least 1, got %d", p.PeriodMinSamples)
	}
	if p.PeriodMinCycle <= 0 || p.PeriodCycleTol <= 0 {
		return fmt.Errorf("profile periodicity thresholds must be positive")
	}
	if cfg.Trace.DeviceIP != "" && net.ParseIP(cfg.Trace.DeviceIP) == nil {
		return fmt.Errorf("trace.device_ip %q is not a valid IP address", cfg.Trace.DeviceIP)
	}
	if cfg.Writers.ClickHouse.Enabled && cfg.Writers.ClickHouse.Host == "" {
		return fmt.Errorf("writers.clickhouse.host is required when the ClickHouse writer is enabled")
	}
	if cfg.Notifier.Enabled && cfg.Notifier.NATSURL == "" {
		return fmt.Errorf("notifier.nats_url is required when the notifier is enabled")
	}
	return nil
}
