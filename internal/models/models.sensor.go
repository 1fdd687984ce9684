// FilePath: internal/models/models.sensor.go
package models

import "time"

// Sensor represents a registered field device. The id is assigned by the
// device itself and acts as the natural key; re-registering an existing id
// updates name and location but never identity.
type Sensor struct {
	ID        string    `json:"id" db:"sensor_id"`
	Name      string    `json:"name" db:"name"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	LastSeen  time.Time `json:"last_seen" db:"last_seen"`

	// IsConnected is never stored. It is derived from LastSeen at read
	// time so both backends report the same liveness.
	IsConnected bool `json:"is_connected" db:"-"`
}

// ConnectedAt reports whether the sensor counts as live at the given
// instant, for the given staleness threshold.
func (s *Sensor) ConnectedAt(now time.Time, threshold time.Duration) bool {
	if s.LastSeen.IsZero() {
		return false
	}
	return now.Sub(s.LastSeen) < threshold
}

// SensorWithLastReading is the /sensors/list projection: the sensor plus
// its most recent reading, if any.
type SensorWithLastReading struct {
	Sensor
	LastReading *Reading `json:"last_reading,omitempty"`
}
