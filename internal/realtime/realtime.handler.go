// FilePath: internal/realtime/realtime.handler.go
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	nuts "github.com/vaudience/go-nuts"

	"github.com/vigilaire/hub/internal/hubservice"
	"github.com/vigilaire/hub/internal/monitoring"
)

const (
	readLimit    = 64 * 1024
	writeTimeout = 5 * time.Second
)

// inboundMessage is the wire shape devices push on the duplex channel.
type inboundMessage struct {
	Type        string   `json:"type"`
	SensorID    string   `json:"sensorId"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	PM25        *float64 `json:"pm25"`
	Timestamp   string   `json:"timestamp"`
}

type outboundMessage struct {
	Type        string  `json:"type"`
	TS          int64   `json:"ts,omitempty"`
	SensorID    string  `json:"sensorId,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	Humidity    float64 `json:"humidity,omitempty"`
	PM25        float64 `json:"pm25,omitempty"`
}

// Handler upgrades dashboard viewers and devices onto the realtime channel
// namespace. A device and a viewer share one logical channel per sensor id:
// whichever connected last owns the registry slot, and a reading arriving on
// one channel is forwarded as a reading:update to the other.
type Handler struct {
	upgrader websocket.Upgrader
	registry *Registry
	svc      *hubservice.HubService
	metrics  *monitoring.Metrics
}

// NewHandler creates the websocket endpoint handler.
func NewHandler(registry *Registry, svc *hubservice.HubService, metrics *monitoring.Metrics) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Devices connect directly, there is no cookie-based auth to protect.
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		registry: registry,
		svc:      svc,
		metrics:  metrics,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	query := r.URL.Query()
	sensorID := query.Get("sensorId")

	// A device announcing full identity on connect gets registered on the
	// spot, so provisioning-free field deployments just work.
	if sensorID != "" && query.Get("name") != "" {
		lat, latErr := strconv.ParseFloat(query.Get("latitude"), 64)
		lon, lonErr := strconv.ParseFloat(query.Get("longitude"), 64)
		if latErr == nil && lonErr == nil {
			if _, err := h.svc.RegisterSensor(r.Context(), sensorID, query.Get("name"), lat, lon); err != nil {
				nuts.L.Warnf("[Realtime] Failed to register sensor %s on connect: %v", sensorID, err)
			}
		}
	}

	sess := &session{conn: conn}
	if sensorID != "" {
		h.registry.put(sensorID, sess)
		if err := h.svc.SetConnection(r.Context(), sensorID, true); err != nil {
			nuts.L.Warnf("[Realtime] Failed to mark %s connected: %v", sensorID, err)
		}
	}
	h.metrics.SessionOpened()

	h.readLoop(sess, sensorID)

	h.metrics.SessionClosed()
	if sensorID != "" {
		h.registry.drop(sensorID, sess)
		// Channel close is an explicit disconnect, always journaled.
		if err := h.svc.SetConnection(context.Background(), sensorID, false); err != nil {
			nuts.L.Warnf("[Realtime] Failed to mark %s disconnected: %v", sensorID, err)
		}
	}
	_ = conn.Close()
}

func (h *Handler) readLoop(sess *session, channelSensorID string) {
	sess.conn.SetReadLimit(readLimit)

	for {
		_, payload, err := sess.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			// Malformed frame: drop silently, keep the channel alive.
			continue
		}

		switch msg.Type {
		case "ping":
			_ = sess.send(outboundMessage{Type: "pong", TS: time.Now().UnixMilli()})

		case "disconnect":
			if channelSensorID != "" {
				if err := h.svc.SetConnection(context.Background(), channelSensorID, false); err != nil {
					nuts.L.Warnf("[Realtime] Failed to disconnect %s: %v", channelSensorID, err)
				}
			}
			_ = sess.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "disconnect"),
				time.Now().Add(writeTimeout),
			)
			return

		case "reading":
			h.handleReading(sess, channelSensorID, msg)

		default:
			// Unknown type: best-effort contract, ignore.
		}
	}
}

func (h *Handler) handleReading(sess *session, channelSensorID string, msg inboundMessage) {
	sensorID := msg.SensorID
	if sensorID == "" {
		sensorID = channelSensorID
	}
	if sensorID == "" || msg.Temperature == nil || msg.Humidity == nil || msg.PM25 == nil {
		return
	}

	var at time.Time
	if msg.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, msg.Timestamp); err == nil {
			at = parsed
		}
	}

	reading, err := h.svc.RecordReading(context.Background(), sensorID, *msg.Temperature, *msg.Humidity, *msg.PM25, at)
	if err != nil {
		nuts.L.Warnf("[Realtime] Dropped reading for %s: %v", sensorID, err)
		return
	}

	_ = sess.send(outboundMessage{Type: "ack", TS: time.Now().UnixMilli()})

	// Forward to whoever else holds the channel slot for this sensor.
	if target, ok := h.registry.get(sensorID); ok && target != sess {
		_ = target.send(outboundMessage{
			Type:        "reading:update",
			SensorID:    sensorID,
			Temperature: reading.Temperature,
			Humidity:    reading.Humidity,
			PM25:        reading.PM25,
		})
	}
}
