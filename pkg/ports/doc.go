// Package ports defines the interfaces and value types shared between the
// API layer and the adapters.
//
// Adapters implement these interfaces:
//   - Classifier: the hosted inference provider
//   - EventBus: classification event fan-out
//   - MetricsCollector: request and inference metrics
package ports
