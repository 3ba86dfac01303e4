// Package events contains the event contracts pushed to dashboard pages over WebSocket.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Dataset messages
	MessageTypeDatasetReloaded MessageType = "dataset:reloaded"
	MessageTypeDatasetError    MessageType = "dataset:error"

	// Connection messages
	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// DatasetReloaded is sent after the workbook changed on disk and was loaded again.
type DatasetReloaded struct {
	Rows      int       `json:"rows"`
	FirstYear int       `json:"first_year,omitempty"`
	LastYear  int       `json:"last_year,omitempty"`
	Strategy  string    `json:"strategy"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// DatasetError is sent when a reload failed; the previous table stays in service.
type DatasetError struct {
	Message string `json:"message"`
}

// NewMessage builds a message stamped with the current time.
func NewMessage(t MessageType, data interface{}) WebSocketMessage {
	return WebSocketMessage{
		BaseMessage: BaseMessage{Type: t, Timestamp: time.Now()},
		Data:        data,
	}
}
