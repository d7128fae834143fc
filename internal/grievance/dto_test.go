package grievance

import (
	"strings"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw        string
		want       Status
		wantBucket Bucket
	}{
		{"Pending", StatusPending, BucketPending},
		{"pending", StatusPending, BucketPending},
		{" In Progress ", StatusInProgress, BucketInProgress},
		{"RESOLVED", StatusResolved, BucketResolved},
		{"Verified", StatusVerified, BucketOther},
		{"Forwarded", StatusForwarded, BucketOther},
		{"Escalated", StatusOther, BucketOther},
		{"", StatusOther, BucketOther},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseStatus(tt.raw)
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			if got.Bucket() != tt.wantBucket {
				t.Errorf("ParseStatus(%q).Bucket() = %v, want %v", tt.raw, got.Bucket(), tt.wantBucket)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{"RFC3339", "2025-03-04T10:20:30Z", time.Date(2025, 3, 4, 10, 20, 30, 0, time.UTC), true},
		{"Offset", "2025-03-04T10:20:30+05:30", time.Date(2025, 3, 4, 4, 50, 30, 0, time.UTC), true},
		{"PythonIsoformat", "2025-03-04T10:20:30.123456", time.Date(2025, 3, 4, 10, 20, 30, 123456000, time.UTC), true},
		{"NoFraction", "2025-03-04T10:20:30", time.Date(2025, 3, 4, 10, 20, 30, 0, time.UTC), true},
		{"SQLDatetime", "2025-03-04 10:20:30", time.Date(2025, 3, 4, 10, 20, 30, 0, time.UTC), true},
		{"DateOnly", "2025-03-04", time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), true},
		{"Garbage", "yesterday", time.Time{}, false},
		{"Empty", "", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTime(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseTime(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeReports(t *testing.T) {
	payload := `[
		{"id": 7, "title": "Pothole", "description": "Deep", "department": "Road Maintenance",
		 "status": "In Progress", "location": "CIDCO N-3", "date_created": "2025-01-15T08:00:00.000001",
		 "user": {"id": 3, "name": "Asha", "email": "asha@example.com"}, "image_url": null, "forwarded_to": null},
		{"id": "abc", "code": "X-1", "title": "Leak", "department": null, "status": "Forwarded",
		 "location": null, "date_created": "not a date", "user": null}
	]`

	reports, err := DecodeReports([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeReports() error = %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}

	first := reports[0]
	if first.ID != "7" || first.Code != "CMP-000007" {
		t.Errorf("first report id/code = %q/%q, want 7/CMP-000007", first.ID, first.Code)
	}
	if first.Status != StatusInProgress || first.RawStatus != "In Progress" {
		t.Errorf("first report status = %v (%q)", first.Status, first.RawStatus)
	}
	if first.LocationText() != "CIDCO N-3" || !first.HasLocation() {
		t.Errorf("first report location = %q", first.LocationText())
	}
	if first.User == nil || first.User.ID != "3" || first.User.Name != "Asha" {
		t.Errorf("first report user = %+v", first.User)
	}
	if !first.HasDate() || first.DateCreated.Month() != time.January {
		t.Errorf("first report date = %v", first.DateCreated)
	}

	second := reports[1]
	if second.ID != "abc" || second.Code != "X-1" {
		t.Errorf("second report id/code = %q/%q", second.ID, second.Code)
	}
	if second.Department != "" {
		t.Errorf("null department should decode to empty string, got %q", second.Department)
	}
	if second.HasDate() {
		t.Errorf("unparseable date should decode to zero time, got %v", second.DateCreated)
	}
	if second.HasLocation() || second.User != nil {
		t.Errorf("second report should have no location and no user")
	}
	if second.Status != StatusForwarded {
		t.Errorf("second report status = %v, want Forwarded", second.Status)
	}
}

func TestDecodeReports_CallerDefects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{"Object", `{"id": 1}`, "must be a JSON array, got object"},
		{"Null", `null`, "must be a JSON array, got null"},
		{"Empty", ``, "empty input"},
		{"ElementNotObject", `[{"id": 1}, 42]`, "index 1 must be a JSON object, got number"},
		{"TruncatedObject", `[{"id": 1, "title": }]`, "failed to decode report array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeReports([]byte(tt.payload))
			if err == nil {
				t.Fatalf("expected error for %s payload", tt.name)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDecodeReports_MistypedFieldsKeepTheReport(t *testing.T) {
	payload := `[
		{"id": 1, "title": "Drain", "department": "Sanitation", "status": "Pending",
		 "location": "Harsul", "date_created": "2025-01-05T10:00:00"},
		{"id": 2, "title": "Streetlight", "department": "Electricity", "status": "Resolved",
		 "location": "Waluj", "date_created": 1736071200},
		{"id": true, "title": 42, "department": ["Water Supply"], "status": "In Progress",
		 "location": "Gulmandi", "date_created": "2025-02-01", "user": "asha"}
	]`

	reports, err := DecodeReports([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeReports() error = %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}

	numericDate := reports[1]
	if numericDate.HasDate() {
		t.Errorf("numeric date_created should decode to zero time, got %v", numericDate.DateCreated)
	}
	if numericDate.ID != "2" || numericDate.Department != "Electricity" || numericDate.Status != StatusResolved {
		t.Errorf("other fields of the report should survive, got %+v", numericDate)
	}
	if numericDate.LocationText() != "Waluj" {
		t.Errorf("location = %q, want Waluj", numericDate.LocationText())
	}

	mixed := reports[2]
	if mixed.ID != "" || mixed.Title != "" || mixed.Department != "" || mixed.User != nil {
		t.Errorf("mistyped fields should be dropped, got %+v", mixed)
	}
	if mixed.Status != StatusInProgress || !mixed.HasDate() || mixed.LocationText() != "Gulmandi" {
		t.Errorf("well-typed fields should survive, got %+v", mixed)
	}
}

func TestDecodeDTO_ReportsDroppedFields(t *testing.T) {
	dto, dropped, err := DecodeDTO([]byte(`{"id": 9, "date_created": 1736071200, "is_verified": "yes", "title": "Leak"}`))
	if err != nil {
		t.Fatalf("DecodeDTO() error = %v", err)
	}
	if want := []string{"date_created", "is_verified"}; strings.Join(dropped, ",") != strings.Join(want, ",") {
		t.Errorf("dropped = %v, want %v", dropped, want)
	}
	if dto.ID != "9" || dto.Title != "Leak" || dto.DateCreated != nil {
		t.Errorf("dto = %+v", dto)
	}

	if _, _, err := DecodeDTO([]byte(`"not an object"`)); err == nil {
		t.Error("expected an error for a non-object")
	}
}

func TestReport_UnmarshalJSONIsLenient(t *testing.T) {
	var r Report
	if err := r.UnmarshalJSON([]byte(`{"id": 5, "status": "resolved", "date_created": 1736071200}`)); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if r.ID != "5" || r.Status != StatusResolved || r.HasDate() {
		t.Errorf("decoded report = %+v", r)
	}
}

func TestDecodeReports_EmptyArray(t *testing.T) {
	reports, err := DecodeReports([]byte(` [] `))
	if err != nil {
		t.Fatalf("DecodeReports() error = %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("expected no reports, got %d", len(reports))
	}
}

func TestReport_JSONRoundTripKeepsStatus(t *testing.T) {
	in := Report{
		ID:          "12",
		Code:        "CMP-000012",
		Department:  "Sanitation",
		RawStatus:   "Resolved",
		Status:      StatusResolved,
		Location:    StringPtr("Osmanpura"),
		DateCreated: time.Date(2024, 11, 2, 9, 0, 0, 0, time.UTC),
		User:        &User{ID: "4", Name: "Ravi"},
	}

	data, err := in.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	var out Report
	if err := out.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if out.Status != StatusResolved || !out.DateCreated.Equal(in.DateCreated) || out.LocationText() != "Osmanpura" {
		t.Errorf("decoded report = %+v", out)
	}
}
