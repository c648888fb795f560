// Package events provides event bus implementations for classification events.
//
// Implementations:
//   - redis: Redis Streams, every subscriber reads every entry
//   - memory: in-process fan-out, used when Redis is not configured
package events
