package telemetry

import (
	"os"
	"strconv"
)

// Config holds the configuration for logging, metrics and tracing of the
// zohosub tools.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	// LogLevel is a logrus level name
	LogLevel string
	// LogFormat is "json" or "text"
	LogFormat string

	// EnableTracing exports spans over OTLP/gRPC to OTLPEndpoint, or to
	// TracesFilePath when ExportToFile is set
	EnableTracing  bool
	OTLPEndpoint   string
	SamplingRate   float64
	ExportToFile   bool
	TracesFilePath string
}

// NewConfigFromEnv creates a new config from environment variables
func NewConfigFromEnv() *Config {
	cfg := &Config{
		ServiceName:    getEnv("OTEL_SERVICE_NAME", "zohosub"),
		ServiceVersion: getEnv("SERVICE_VERSION", "unknown"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		EnableTracing:  getEnvBool("ENABLE_TRACING", false),
		SamplingRate:   getEnvFloat("OTEL_SAMPLING_RATE", 1.0),
	}

	if getEnvBool("OTEL_EXPORT_TO_FILE", false) {
		cfg.ExportToFile = true
		cfg.TracesFilePath = getEnv("OTEL_TRACES_FILE_PATH", "/tmp/otel/traces.json")
	} else {
		cfg.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
