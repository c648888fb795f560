// Package http provides the HTTP API implementation.
//
// The HTTP server exposes endpoints for:
//   - The static index page
//   - Sentiment classification (POST /sentiment)
//   - Health checks
//   - Prometheus metrics
//   - A WebSocket feed of classification events
package http
