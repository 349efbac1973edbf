package metrics

import "github.com/kilianp07/evrange/core/factory"

// Config defines settings for decision sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddress enables the /metrics HTTP endpoint when not empty.
	PrometheusAddress string `json:"prometheus_address"`
}
