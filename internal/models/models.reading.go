// FilePath: internal/models/models.reading.go
package models

import "time"

// Reading is a single immutable measurement submitted by a sensor.
type Reading struct {
	ID          string    `json:"id" db:"id"`
	SensorID    string    `json:"sensor_id" db:"sensor_id"`
	Temperature float64   `json:"temperature" db:"temperature"` // degrees Celsius
	Humidity    float64   `json:"humidity" db:"humidity"`       // relative humidity, percent
	PM25        float64   `json:"pm25" db:"pm25"`               // PM2.5 concentration, ug/m3
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
}

// ReadingPage is one page of a most-recent-first readings query. Total is
// the full filtered count, not the page length, so consumers can compute
// ceil(total/pageSize) pages.
type ReadingPage struct {
	Readings []Reading `json:"readings"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}
