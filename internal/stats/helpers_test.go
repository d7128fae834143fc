package stats

import (
	"time"

	"grievance-analytics/internal/grievance"
)

// report builds a test report. An empty location means absent; a zero date means missing.
func report(id, department, status, location string, created time.Time, userID string) grievance.Report {
	r := grievance.Report{
		ID:          id,
		Title:       "Report " + id,
		Department:  department,
		RawStatus:   status,
		Status:      grievance.ParseStatus(status),
		DateCreated: created,
	}
	if location != "" {
		r.Location = grievance.StringPtr(location)
	}
	if userID != "" {
		r.User = &grievance.User{ID: userID, Name: "User " + userID}
	}
	return r
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
}
