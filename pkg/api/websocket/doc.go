// Package websocket provides a WebSocket feed of classification events.
package websocket
