// FilePath: internal/hubservice/hubservice.seed.go
package hubservice

import (
	"context"
	"math/rand"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/vigilaire/hub/internal/models"
)

type seedSensor struct {
	id        string
	name      string
	latitude  float64
	longitude float64
}

var seedSensors = []seedSensor{
	{"SENSOR_001", "Campus Principal - Entrada", 7.3797, -72.6517},
	{"SENSOR_002", "Centro Histórico", 7.3789, -72.6489},
	{"SENSOR_003", "Parque Águeda Gallardo", 7.3825, -72.6545},
	{"SENSOR_004", "Terminal de Transportes", 7.3765, -72.6478},
}

// Seed loads demo data for empty deployments: four sensors, 24 hours of
// hourly readings each, and a history of connect/disconnect pairs. Invoked
// only through the -seed flag, never as an import side effect.
func (s *HubService) Seed(ctx context.Context) error {
	now := s.now()

	for idx, spec := range seedSensors {
		if _, err := s.RegisterSensor(ctx, spec.id, spec.name, spec.latitude, spec.longitude); err != nil {
			return err
		}

		baseTemp := 22.0 + float64(idx)*2
		baseHumidity := 60.0 + float64(idx)*5
		basePM25 := 10.0 + float64(idx)*5

		for h := 24; h >= 1; h-- {
			at := now.Add(-time.Duration(h) * time.Hour)
			reading := &models.Reading{
				SensorID:    spec.id,
				Temperature: baseTemp + rand.Float64()*6 - 3,
				Humidity:    baseHumidity + rand.Float64()*10 - 5,
				PM25:        max(0, basePM25+rand.Float64()*20-10),
				Timestamp:   at,
			}
			if err := s.store.InsertReading(ctx, reading); err != nil {
				return err
			}
		}

		for i := 5; i > 0; i-- {
			connectAt := now.Add(-time.Duration(i) * 4 * time.Hour)
			disconnectAt := connectAt.Add(2 * time.Hour)
			if err := s.store.InsertEvent(ctx, &models.ConnectionEvent{
				SensorID:  spec.id,
				EventType: models.EventConnect,
				Timestamp: connectAt,
			}); err != nil {
				return err
			}
			if err := s.store.InsertEvent(ctx, &models.ConnectionEvent{
				SensorID:  spec.id,
				EventType: models.EventDisconnect,
				Timestamp: disconnectAt,
			}); err != nil {
				return err
			}
		}
	}

	nuts.L.Infof("[HubService] Seeded %d demo sensors with 24h of readings", len(seedSensors))
	return nil
}
