package grievance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ReportDTO is the wire shape of a report returned by the portal API.
type ReportDTO struct {
	ID          FlexibleID `json:"id"`
	Code        string     `json:"code,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Department  *string    `json:"department"`
	Status      *string    `json:"status"`
	Location    *string    `json:"location"`
	DateCreated *string    `json:"date_created"`
	User        *UserDTO   `json:"user"`
	ImageURL    *string    `json:"image_url"`
	ForwardedTo *string    `json:"forwarded_to"`
	IsVerified  bool       `json:"is_verified,omitempty"`
}

// UserDTO is the embedded submitter object.
type UserDTO struct {
	ID    FlexibleID `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email,omitempty"`
}

// FlexibleID accepts both JSON numbers and strings. The portal emits integer
// primary keys while other sources use opaque strings.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = FlexibleID(n.String())
	return nil
}

// timeLayouts lists the timestamp formats seen from the portal and its databases.
// Zone-less values are interpreted as UTC (the backend stores utcnow()).
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses a report timestamp. It returns false when no layout matches.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatCode renders the portal's human-readable report code.
func FormatCode(id int64) string {
	return fmt.Sprintf("CMP-%06d", id)
}

// ToReport converts the wire shape into the domain model. It never fails:
// absent or malformed optional fields degrade to their zero values.
func (d ReportDTO) ToReport() Report {
	r := Report{
		ID:          string(d.ID),
		Code:        d.Code,
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		ImageURL:    d.ImageURL,
		ForwardedTo: d.ForwardedTo,
		IsVerified:  d.IsVerified,
	}
	if d.Department != nil {
		r.Department = *d.Department
	}
	if d.Status != nil {
		r.RawStatus = *d.Status
	}
	r.Status = ParseStatus(r.RawStatus)
	if d.DateCreated != nil {
		if t, ok := ParseTime(*d.DateCreated); ok {
			r.DateCreated = t
		}
	}
	if d.User != nil {
		r.User = &User{ID: string(d.User.ID), Name: d.User.Name, Email: d.User.Email}
	}
	if r.Code == "" {
		if n, err := strconv.ParseInt(r.ID, 10, 64); err == nil {
			r.Code = FormatCode(n)
		}
	}
	return r
}

// ToDTO converts a report back to its wire shape.
func (r Report) ToDTO() ReportDTO {
	d := ReportDTO{
		ID:          FlexibleID(r.ID),
		Code:        r.Code,
		Title:       r.Title,
		Description: r.Description,
		Department:  StringPtr(r.Department),
		Status:      StringPtr(r.RawStatus),
		Location:    r.Location,
		ImageURL:    r.ImageURL,
		ForwardedTo: r.ForwardedTo,
		IsVerified:  r.IsVerified,
	}
	if r.HasDate() {
		d.DateCreated = StringPtr(r.DateCreated.UTC().Format(time.RFC3339Nano))
	}
	if r.User != nil {
		d.User = &UserDTO{ID: FlexibleID(r.User.ID), Name: r.User.Name, Email: r.User.Email}
	}
	return d
}

// MarshalJSON encodes a report in the portal wire shape.
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToDTO())
}

// UnmarshalJSON decodes a report from the portal wire shape.
// Fields of the wrong JSON type are dropped, see DecodeDTO.
func (r *Report) UnmarshalJSON(data []byte) error {
	d, _, err := DecodeDTO(data)
	if err != nil {
		return err
	}
	*r = d.ToReport()
	return nil
}

// DecodeDTO decodes one report object. A field whose JSON type does not match
// the wire shape (a numeric date_created, a boolean id) is left at its zero
// value and its key is returned in dropped. Only input that is not a JSON
// object fails.
func DecodeDTO(data []byte) (dto ReportDTO, dropped []string, err error) {
	if err := json.Unmarshal(data, &dto); err == nil {
		return dto, nil, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ReportDTO{}, nil, err
	}

	dto = ReportDTO{}
	for key, value := range fields {
		single, err := json.Marshal(map[string]json.RawMessage{key: value})
		if err != nil {
			dropped = append(dropped, key)
			continue
		}
		var field ReportDTO
		if err := json.Unmarshal(single, &field); err != nil {
			dropped = append(dropped, key)
			continue
		}
		if err := json.Unmarshal(single, &dto); err != nil {
			dropped = append(dropped, key)
		}
	}
	sort.Strings(dropped)
	return dto, dropped, nil
}

// DecodeReports decodes a portal payload into reports.
// A payload that is not an array, or an element that is not an object, is a caller
// defect and fails with a descriptive error instead of degrading silently.
// Mistyped fields inside an object only lose that field.
func DecodeReports(data []byte) ([]Report, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("report payload must be a JSON array, got %s", describeJSON(trimmed))
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode report array: %w", err)
	}

	reports := make([]Report, 0, len(raw))
	for i, elem := range raw {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			return nil, fmt.Errorf("report at index %d must be a JSON object, got %s", i, describeJSON(elem))
		}
		dto, dropped, err := DecodeDTO(elem)
		if err != nil {
			return nil, fmt.Errorf("failed to decode report at index %d: %w", i, err)
		}
		if len(dropped) > 0 {
			log.Warn().Int("index", i).Str("id", string(dto.ID)).Strs("fields", dropped).Msg("Dropped mistyped report fields")
		}
		reports = append(reports, dto.ToReport())
	}
	return reports, nil
}

func describeJSON(data []byte) string {
	if len(data) == 0 {
		return "empty input"
	}
	switch data[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 'n':
		return "null"
	case 't', 'f':
		return "boolean"
	default:
		return "number"
	}
}
