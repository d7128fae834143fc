package grievance

import (
	"strings"
	"time"
)

// Report is a single citizen grievance as delivered by the portal.
// The engine treats reports as read-only snapshots; JSON encoding goes through ReportDTO.
type Report struct {
	ID          string
	Code        string
	Title       string
	Description string
	Department  string
	Status      Status
	RawStatus   string
	Location    *string
	DateCreated time.Time // zero when missing or unparseable
	User        *User
	ImageURL    *string
	ForwardedTo *string
	IsVerified  bool
}

// User identifies the citizen who submitted a report.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// LocationText returns the location string, or "" when the report has none.
func (r Report) LocationText() string {
	if r.Location == nil {
		return ""
	}
	return *r.Location
}

// HasLocation reports whether the location is present and not blank.
func (r Report) HasLocation() bool {
	return strings.TrimSpace(r.LocationText()) != ""
}

// HasDate reports whether DateCreated carries a usable timestamp.
func (r Report) HasDate() bool {
	return !r.DateCreated.IsZero()
}

// StringPtr is a small helper for building optional fields.
func StringPtr(s string) *string {
	return &s
}
