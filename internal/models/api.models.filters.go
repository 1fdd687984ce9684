// FilePath: internal/models/api.models.filters.go
package models

import "time"

// HistoryFilters carries the query-string filter shapes shared by the
// readings and events endpoints. Dates arrive as ISO-8601 strings and are
// parsed by StartTime/EndTime; zero values mean "not supplied".
type HistoryFilters struct {
	Limit     int    `schema:"limit"`
	StartDate string `schema:"startDate"`
	EndDate   string `schema:"endDate"`
	Page      int    `schema:"page"`
	PageSize  int    `schema:"pageSize"`
}

// Paginated reports whether the caller asked for the paginated shape.
func (f *HistoryFilters) Paginated() bool {
	return f.Page > 0 || f.PageSize > 0
}

// Ranged reports whether both ends of a date range were supplied.
func (f *HistoryFilters) Ranged() bool {
	return f.StartDate != "" && f.EndDate != ""
}

// StartTime parses the startDate parameter. Returns nil when absent and an
// error when present but unparseable.
func (f *HistoryFilters) StartTime() (*time.Time, error) {
	return parseFilterTime(f.StartDate)
}

// EndTime parses the endDate parameter.
func (f *HistoryFilters) EndTime() (*time.Time, error) {
	return parseFilterTime(f.EndDate)
}

func parseFilterTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
