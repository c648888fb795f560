package ports

import "time"

// Request outcomes recorded by MetricsCollector
const (
	OutcomeOK             = "ok"
	OutcomeMissingText    = "missing_text"
	OutcomeNotConfigured  = "not_configured"
	OutcomeInferenceError = "inference_error"
)

// MetricsCollector records sentiment request metrics
type MetricsCollector interface {
	IncRequests(outcome string)
	IncLabel(label string)
	IncInferenceFailures(kind InferenceErrorKind)
	ObserveInferenceDuration(model string, duration time.Duration)
}
