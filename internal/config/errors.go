package config

import "errors"

var (
	ErrReadingConfigFile       = errors.New("failed to read config file")
	ErrUnmarshallingConfig     = errors.New("failed to unmarshal config")
	ErrEmptyKafkaBrokers       = errors.New("kafka brokers list cannot be empty")
	ErrEmptyKafkaTopic         = errors.New("kafka topic cannot be empty")
	ErrEmptyKafkaGroupID       = errors.New("kafka groupID cannot be empty")
	ErrInvalidMinRegionSamples = errors.New("pipeline minRegionSamples must be positive")
	ErrEmptyMetricsListenAddr  = errors.New("metrics listenAddr cannot be empty when metrics are enabled")
	ErrEmptySourceName         = errors.New("source name cannot be empty")
	ErrConfigFileMissing       = errors.New("config file not found")
)
