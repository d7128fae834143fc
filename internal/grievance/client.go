package grievance

import (
	"context"
	"errors"
	"time"
)

// ErrUnauthorized is returned when the portal rejects the configured identity.
var ErrUnauthorized = errors.New("portal rejected the request (401/403)")

// Client is the interface for reading report snapshots from the portal API.
type Client interface {
	// ListReports returns every report visible to the configured admin identity.
	ListReports(ctx context.Context) ([]Report, error)
	// ListReportsFiltered asks the portal to pre-filter by department and status.
	ListReportsFiltered(ctx context.Context, department, status string) ([]Report, error)
}

// Config holds the connection settings for the portal API.
type Config struct {
	BaseURL string

	// UserID is sent as X-User-ID, the portal's admin identity header.
	UserID string

	// Performance Settings
	RequestDelay time.Duration
	CacheTTL     time.Duration
	Timeout      time.Duration
}

// NewClient creates a portal API client for the provided configuration.
func NewClient(cfg Config) Client {
	return NewHTTPClient(cfg)
}
