package grievance

import "strings"

// Status is the closed set of workflow states a report can be in.
type Status int

const (
	StatusOther Status = iota
	StatusPending
	StatusInProgress
	StatusResolved
	StatusVerified
	StatusForwarded
)

// Canonical status labels as used by the portal.
const (
	LabelPending    = "Pending"
	LabelInProgress = "In Progress"
	LabelResolved   = "Resolved"
	LabelVerified   = "Verified"
	LabelForwarded  = "Forwarded"
	LabelOther      = "Other"
)

// Bucket is one of the four tally buckets every report is counted in.
type Bucket string

const (
	BucketPending    Bucket = LabelPending
	BucketInProgress Bucket = LabelInProgress
	BucketResolved   Bucket = LabelResolved
	BucketOther      Bucket = LabelOther
)

// ParseStatus maps a raw status string onto the enumeration.
// Matching is case-insensitive on the trimmed value; unknown strings become StatusOther.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return StatusPending
	case "in progress":
		return StatusInProgress
	case "resolved":
		return StatusResolved
	case "verified":
		return StatusVerified
	case "forwarded":
		return StatusForwarded
	default:
		return StatusOther
	}
}

// String returns the portal label of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return LabelPending
	case StatusInProgress:
		return LabelInProgress
	case StatusResolved:
		return LabelResolved
	case StatusVerified:
		return LabelVerified
	case StatusForwarded:
		return LabelForwarded
	default:
		return LabelOther
	}
}

// Bucket returns the tally bucket. Verified and Forwarded are workflow side-states
// and are counted with unknown values in the Other bucket.
func (s Status) Bucket() Bucket {
	switch s {
	case StatusPending:
		return BucketPending
	case StatusInProgress:
		return BucketInProgress
	case StatusResolved:
		return BucketResolved
	default:
		return BucketOther
	}
}
