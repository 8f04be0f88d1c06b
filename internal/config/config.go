package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultKafkaGroupID      = "pixellens-default-group"
	defaultPipelineWorkers   = 0 // 0 means GOMAXPROCS
	defaultMinRegionSamples  = 4096
	defaultMetricsListenAddr = ":2112"
	defaultMetricsEnabled    = true
	defaultLogLevel          = "info"
	defaultLogFormat         = "console"
	defaultLogFileEnabled    = false
	defaultLogDirectory      = "log"
	defaultLogFilename       = "app.log"
	defaultLogMaxSizeMB      = 100
	defaultLogMaxBackups     = 3
	defaultLogMaxAgeDays     = 7
	defaultLogCompress       = false

	// Environment variable prefix
	envPrefix = "PIXELLENS"
)

type Config struct {
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Sources  []SourceConfig `mapstructure:"sources"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"groupID"`
}

type PipelineConfig struct {
	// Workers bounds the number of concurrent region scans per frame.
	// Zero or negative means one worker per available CPU.
	Workers int `mapstructure:"workers"`
	// MinRegionSamples keeps small frames from being split into regions
	// finer than the per-goroutine overhead is worth.
	MinRegionSamples int `mapstructure:"minRegionSamples"`
}

// SourceConfig carries per-source alerting thresholds. Sources absent from
// the list are still analyzed but never alerted on.
type SourceConfig struct {
	Name       string     `mapstructure:"name"`
	Thresholds Thresholds `mapstructure:"thresholds"`
}

type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listenAddr"`
}

type LogConfig struct {
	Level              string `mapstructure:"level"`
	Format             string `mapstructure:"format"`
	FileLoggingEnabled bool   `mapstructure:"fileLoggingEnabled"`
	Directory          string `mapstructure:"directory"`
	Filename           string `mapstructure:"filename"`
	MaxSize            int    `mapstructure:"maxSize"`    // Max size in MB
	MaxBackups         int    `mapstructure:"maxBackups"` // Max backup files
	MaxAge             int    `mapstructure:"maxAge"`     // Max days to retain
	Compress           bool   `mapstructure:"compress"`   // Compress rotated files?
}

type Thresholds struct {
	MeanMin  *float64 `mapstructure:"meanMin"`
	MeanMax  *float64 `mapstructure:"meanMax"`
	SigmaMax *float64 `mapstructure:"sigmaMax"`
	MinBelow *float64 `mapstructure:"minBelow"`
	MaxAbove *float64 `mapstructure:"maxAbove"`
}

// Load initializes viper, reads config, applies defaults, unmarshals, and validates.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	configureViper(v, configPath)

	// Set default values before reading config source .yaml
	setDefaults(v)

	// Read configuration from file (error if mandatory file is missing)
	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	// Unmarshal the configuration
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// configureViper sets up viper instance for file and environment variables.
func configureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults applies default configuration values using Viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("kafka.groupID", defaultKafkaGroupID)
	v.SetDefault("pipeline.workers", defaultPipelineWorkers)
	v.SetDefault("pipeline.minRegionSamples", defaultMinRegionSamples)
	v.SetDefault("metrics.enabled", defaultMetricsEnabled)
	v.SetDefault("metrics.listenAddr", defaultMetricsListenAddr)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", defaultLogFileEnabled)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", defaultLogCompress)
}

// readConfigFile attempts to read the configuration file specified in viper.
func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return ErrConfigFileMissing
		}
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if len(cfg.Kafka.Brokers) == 0 {
		return ErrEmptyKafkaBrokers
	}
	if cfg.Kafka.Topic == "" {
		return ErrEmptyKafkaTopic
	}
	if cfg.Kafka.GroupID == "" {
		return ErrEmptyKafkaGroupID
	}
	if cfg.Pipeline.MinRegionSamples < 1 {
		return ErrInvalidMinRegionSamples
	}
	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddr == "" {
		return ErrEmptyMetricsListenAddr
	}
	for _, s := range cfg.Sources {
		if s.Name == "" {
			return ErrEmptySourceName
		}
	}
	return nil
}
