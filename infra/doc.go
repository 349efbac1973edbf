// Package infra holds the adapters behind the core interfaces: the zerolog
// logger, the Prometheus, InfluxDB and MQTT decision sinks and the Sentry
// monitor. Core packages never import infra.
package infra
