// FilePath: internal/models/models.event.go
package models

import "time"

// EventType marks the direction of a connection transition.
type EventType string

const (
	EventConnect    EventType = "connect"
	EventDisconnect EventType = "disconnect"
)

// ConnectionEvent is an append-only journal entry marking a liveness
// transition for a sensor.
type ConnectionEvent struct {
	ID        string    `json:"id" db:"id"`
	SensorID  string    `json:"sensor_id" db:"sensor_id"`
	EventType EventType `json:"event_type" db:"event_type"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// EventPage is one page of a most-recent-first events query.
type EventPage struct {
	Events   []ConnectionEvent `json:"events"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}
