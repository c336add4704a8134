package config

import "strings"

// TracingConfig drives the OTLP exporter. No endpoint, no tracing.
type TracingConfig struct {
	Endpoint    string            `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Headers     map[string]string `env:"OTEL_EXPORTER_OTLP_HEADERS" envKeyValSeparator:"="`
	ServiceName string            `env:"OTEL_SERVICE_NAME" envDefault:"techsafi-server"`
	SampleRate  float64           `env:"OTEL_SAMPLING_RATE" envDefault:"1.0"`
}

func (c TracingConfig) Enabled() bool {
	return c.Endpoint != ""
}

// Insecure reports whether the collector is reached over plain HTTP.
func (c TracingConfig) Insecure() bool {
	return strings.HasPrefix(c.Endpoint, "http://")
}

// Rate clamps SampleRate into [0, 1].
func (c TracingConfig) Rate() float64 {
	switch {
	case c.SampleRate < 0:
		return 0
	case c.SampleRate > 1:
		return 1
	}
	return c.SampleRate
}
