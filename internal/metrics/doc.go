// Package metrics provides the observability hooks of the template tools.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics never need nil checks:
//
//	session := editor.NewSession(store, editor.WithRecorder(metrics.NoopRecorder{}))
//
// When the relay runs with metrics enabled, a PrometheusRecorder is created
// on a dedicated registry and HTTPHandler exposes it on /metrics.
package metrics
