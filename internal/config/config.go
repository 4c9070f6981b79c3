package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/erikahunting/white-shark-paina/internal/domain"
)

// Kafka value encodings.
const (
	EncodingJSON    = "json"
	EncodingMsgpack = "msgpack"
)

// Config holds all pipeline settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	Policy          domain.Policy
	ResampleRate    int
	ReportDays      int
	LoadMaxAttempts int
	MaxUploadBytes  int64
	NoColor         bool

	KafkaEnabled  bool
	KafkaBrokers  []string
	KafkaTopic    string
	KafkaEncoding string

	PushgatewayURL string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	policy, err := domain.ParsePolicy(sharedcfg.EnvOrDefault("DAY_PHASE_POLICY", string(domain.PolicyQuaternary)))
	if err != nil {
		return nil, fmt.Errorf("invalid DAY_PHASE_POLICY: %w", err)
	}

	resample, err := parsePositiveInt("RESAMPLE_RATE", 1)
	if err != nil {
		return nil, err
	}
	days, err := parseNonNegativeInt("REPORT_DAYS", 7)
	if err != nil {
		return nil, err
	}
	attempts, err := parsePositiveInt("LOAD_MAX_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	maxUpload, err := parsePositiveInt("MAX_UPLOAD_BYTES", 32<<20)
	if err != nil {
		return nil, err
	}

	brokersEnv := os.Getenv("KAFKA_BROKERS")
	kafkaEnabled := brokersEnv != ""
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	var brokers []string
	if brokersEnv != "" {
		brokers = sharedcfg.ParseBrokers(brokersEnv)
	}

	_, noColor := os.LookupEnv("NO_COLOR")

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		Policy:          policy,
		ResampleRate:    resample,
		ReportDays:      days,
		LoadMaxAttempts: attempts,
		MaxUploadBytes:  int64(maxUpload),
		NoColor:         noColor,

		KafkaEnabled:  kafkaEnabled,
		KafkaBrokers:  brokers,
		KafkaTopic:    sharedcfg.EnvOrDefault("KAFKA_TOPIC", "normalized-depth-records"),
		KafkaEncoding: strings.ToLower(sharedcfg.EnvOrDefault("KAFKA_ENCODING", EncodingJSON)),

		PushgatewayURL: os.Getenv("METRICS_PUSHGATEWAY_URL"),
	}

	if cfg.KafkaEncoding != EncodingJSON && cfg.KafkaEncoding != EncodingMsgpack {
		return nil, fmt.Errorf("invalid KAFKA_ENCODING %q: want json or msgpack", cfg.KafkaEncoding)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	n, err := parseInt(key, def)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return n, nil
}

func parseNonNegativeInt(key string, def int) (int, error) {
	n, err := parseInt(key, def)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return n, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
