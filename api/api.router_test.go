// FilePath: api/api.router_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vigilaire/hub/internal/hubservice"
	"github.com/vigilaire/hub/internal/monitoring"
	"github.com/vigilaire/hub/internal/realtime"
	"github.com/vigilaire/hub/internal/repository/memory"
)

type testEnv struct {
	server *httptest.Server
	svc    *hubservice.HubService
	store  *memory.Store
	now    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store: memory.New(0),
		now:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	metrics := monitoring.New()
	env.svc = hubservice.New(env.store, nil, metrics, hubservice.WithClock(func() time.Time { return env.now }))
	ws := realtime.NewHandler(realtime.NewRegistry(), env.svc, metrics)
	env.server = httptest.NewServer(NewRouter(env.svc, ws, metrics))
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnv) postJSON(t *testing.T, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(e.server.URL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, decodeBody(t, resp)
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(e.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func registerSensor(t *testing.T, env *testEnv, id, name string) {
	t.Helper()
	resp, _ := env.postJSON(t, "/sensors/register", map[string]interface{}{
		"sensorId": id, "name": name, "latitude": 7.3797, "longitude": -72.6517,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register %s: status %d", id, resp.StatusCode)
	}
}

func TestRegisterSensorEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.postJSON(t, "/sensors/register", map[string]interface{}{
		"sensorId": "SENSOR_001", "name": "Rooftop", "latitude": 7.3797, "longitude": -72.6517,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	sensor, ok := body["sensor"].(map[string]interface{})
	if !ok {
		t.Fatalf("no sensor in response: %v", body)
	}
	if sensor["id"] != "SENSOR_001" || sensor["is_connected"] != true {
		t.Errorf("unexpected sensor payload: %v", sensor)
	}
}

func TestRegisterSensorMissingFields(t *testing.T) {
	env := newTestEnv(t)

	cases := []map[string]interface{}{
		{"name": "x", "latitude": 1.0, "longitude": 1.0},
		{"sensorId": "S1", "latitude": 1.0, "longitude": 1.0},
		{"sensorId": "S1", "name": "x", "longitude": 1.0},
		{"sensorId": "S1", "name": "x", "latitude": 1.0},
	}
	for i, payload := range cases {
		resp, body := env.postJSON(t, "/sensors/register", payload)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("case %d: status = %d, want 400", i, resp.StatusCode)
		}
		if body["type"] != "validation" {
			t.Errorf("case %d: error type = %v", i, body["type"])
		}
	}
}

func TestSubmitReadingEndpoint(t *testing.T) {
	env := newTestEnv(t)
	registerSensor(t, env, "SENSOR_001", "Rooftop")

	resp, body := env.postJSON(t, "/sensors/data", map[string]interface{}{
		"sensorId": "SENSOR_001", "temperature": 22.5, "humidity": 55.0, "pm25": 10.0,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	reading, ok := body["reading"].(map[string]interface{})
	if !ok {
		t.Fatalf("no reading in response: %v", body)
	}
	if reading["temperature"] != 22.5 || reading["pm25"] != 10.0 {
		t.Errorf("unexpected reading payload: %v", reading)
	}
}

func TestSubmitReadingUnknownSensor(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.postJSON(t, "/sensors/data", map[string]interface{}{
		"sensorId": "GHOST", "temperature": 22.5, "humidity": 55.0, "pm25": 10.0,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if body["type"] != "not_found" {
		t.Errorf("error type = %v", body["type"])
	}
}

func TestSubmitReadingMissingMeasurement(t *testing.T) {
	env := newTestEnv(t)
	registerSensor(t, env, "S1", "x")

	resp, _ := env.postJSON(t, "/sensors/data", map[string]interface{}{
		"sensorId": "S1", "temperature": 22.5, "humidity": 55.0,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDisconnectEndpoint(t *testing.T) {
	env := newTestEnv(t)
	registerSensor(t, env, "S1", "x")

	resp, _ := env.postJSON(t, "/sensors/disconnect", map[string]interface{}{"sensorId": "S1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	events, err := env.store.Events(context.Background(), "S1", nil, nil)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) == 0 || events[0].EventType != "disconnect" {
		t.Errorf("no disconnect event journaled: %v", events)
	}

	resp, _ = env.postJSON(t, "/sensors/disconnect", map[string]interface{}{"sensorId": "GHOST"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status for unknown sensor = %d, want 404", resp.StatusCode)
	}
}

func TestListSensorsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	registerSensor(t, env, "S1", "Alpha")
	registerSensor(t, env, "S2", "Beta")

	env.postJSON(t, "/sensors/data", map[string]interface{}{
		"sensorId": "S1", "temperature": 22.5, "humidity": 55.0, "pm25": 10.0,
	})

	resp, body := env.get(t, "/sensors/list")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	sensors, ok := body["sensors"].([]interface{})
	if !ok || len(sensors) != 2 {
		t.Fatalf("expected 2 sensors, got %v", body["sensors"])
	}
	first := sensors[0].(map[string]interface{})
	if first["id"] != "S1" {
		t.Fatalf("expected S1 first (ordered by name), got %v", first["sensor_id"])
	}
	if first["is_connected"] != true {
		t.Errorf("S1 should be connected: %v", first)
	}
	lastReading, ok := first["last_reading"].(map[string]interface{})
	if !ok {
		t.Fatalf("S1 missing last reading: %v", first)
	}
	if lastReading["pm25"] != 10.0 {
		t.Errorf("last reading pm25 = %v, want 10", lastReading["pm25"])
	}
}

func TestDeleteSensorEndpoint(t *testing.T) {
	env := newTestEnv(t)
	registerSensor(t, env, "S1", "x")

	req, err := http.NewRequest(http.MethodDelete, env.server.URL+"/sensors/S1", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestReadingsQueryShapes(t *testing.T) {
	env := newTestEnv(t)
	registerSensor(t, env, "S1", "x")

	base := env.now
	for i := 0; i < 12; i++ {
		env.now = base.Add(time.Duration(i) * time.Second)
		if _, err := env.svc.RecordReading(context.Background(), "S1", 20+float64(i), 50, 5, time.Time{}); err != nil {
			t.Fatalf("seed reading %d: %v", i, err)
		}
	}

	// Limit shape.
	resp, body := env.get(t, "/sensors/S1/readings?limit=5")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("limit query status = %d", resp.StatusCode)
	}
	readings := body["readings"].([]interface{})
	if len(readings) != 5 {
		t.Errorf("limit=5 returned %d readings", len(readings))
	}
	newest := readings[0].(map[string]interface{})
	if newest["temperature"] != 31.0 {
		t.Errorf("readings not most-recent-first: %v", newest["temperature"])
	}

	// Paginated shape.
	resp, body = env.get(t, "/sensors/S1/readings?page=2&pageSize=5")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("paginated query status = %d", resp.StatusCode)
	}
	if body["total"] != 12.0 || body["page"] != 2.0 || body["page_size"] != 5.0 {
		t.Errorf("page envelope = total %v page %v page_size %v", body["total"], body["page"], body["page_size"])
	}
	if got := len(body["readings"].([]interface{})); got != 5 {
		t.Errorf("page 2 has %d readings, want 5", got)
	}

	// Range shape.
	start := base.Add(2 * time.Second).Format(time.RFC3339)
	end := base.Add(5 * time.Second).Format(time.RFC3339)
	resp, body = env.get(t, fmt.Sprintf("/sensors/S1/readings?startDate=%s&endDate=%s", start, end))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("range query status = %d", resp.StatusCode)
	}
	if got := len(body["readings"].([]interface{})); got != 4 {
		t.Errorf("range returned %d readings, want 4", got)
	}

	// Malformed dates are a client error.
	resp, _ = env.get(t, "/sensors/S1/readings?startDate=yesterday&endDate=today")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", resp.StatusCode)
	}
}

func TestConnectionEventsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	registerSensor(t, env, "S1", "x")

	env.postJSON(t, "/sensors/disconnect", map[string]interface{}{"sensorId": "S1"})

	resp, body := env.get(t, "/sensors/S1/events")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	events := body["events"].([]interface{})
	if len(events) != 2 {
		t.Fatalf("expected connect + disconnect, got %d events", len(events))
	}

	resp, body = env.get(t, "/sensors/S1/events?page=1&pageSize=1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("paginated status = %d", resp.StatusCode)
	}
	if body["total"] != 2.0 {
		t.Errorf("paginated total = %v, want 2", body["total"])
	}

	// Unknown sensor has an empty journal, not an error.
	resp, body = env.get(t, "/sensors/GHOST/events")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unknown sensor status = %d", resp.StatusCode)
	}
	if got := len(body["events"].([]interface{})); got != 0 {
		t.Errorf("unknown sensor has %d events", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Errorf("health body = %v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
