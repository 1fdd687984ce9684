// FilePath: internal/models/models_test.go
package models

import (
	"testing"
	"time"
)

func TestConnectedAt(t *testing.T) {
	threshold := 60 * time.Second
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		lastSeen time.Time
		want     bool
	}{
		{"never seen", time.Time{}, false},
		{"seen just now", now, true},
		{"inside threshold", now.Add(-59 * time.Second), true},
		{"exactly at threshold", now.Add(-60 * time.Second), false},
		{"long silent", now.Add(-time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Sensor{LastSeen: tc.lastSeen}
			if got := s.ConnectedAt(now, threshold); got != tc.want {
				t.Errorf("ConnectedAt = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHistoryFiltersShapes(t *testing.T) {
	f := &HistoryFilters{}
	if f.Paginated() || f.Ranged() {
		t.Errorf("empty filters should match no shape")
	}

	f = &HistoryFilters{PageSize: 10}
	if !f.Paginated() {
		t.Errorf("pageSize alone should select the paginated shape")
	}

	f = &HistoryFilters{StartDate: "2025-03-01T00:00:00Z"}
	if f.Ranged() {
		t.Errorf("one-sided date range should not count as ranged")
	}

	f = &HistoryFilters{StartDate: "2025-03-01T00:00:00Z", EndDate: "2025-03-02T00:00:00Z"}
	if !f.Ranged() {
		t.Errorf("two-sided date range should count as ranged")
	}

	start, err := f.StartTime()
	if err != nil || start == nil || !start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartTime = %v, %v", start, err)
	}

	f = &HistoryFilters{StartDate: "not-a-date"}
	if _, err := f.StartTime(); err == nil {
		t.Errorf("expected parse error for malformed date")
	}
}
