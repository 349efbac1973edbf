// Package metrics defines the sinks route decisions are reported to. Sinks
// such as the Prometheus and InfluxDB adapters in infra/metrics record each
// DecisionEvent and may optionally count rejected queries. The factory helpers
// build sinks from configuration and return a MultiSink automatically when
// several are configured.
package metrics
