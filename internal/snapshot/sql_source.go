package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"

	"grievance-analytics/internal/grievance"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
)

// OpenDB opens and pings a portal database.
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if driver != DriverPostgres && driver != DriverMySQL {
		return nil, fmt.Errorf("unsupported SQL driver %q (expected %s or %s)", driver, DriverPostgres, DriverMySQL)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// SQLSource reads reports straight from the portal's complain and user tables.
type SQLSource struct {
	db     *sql.DB
	driver string
}

// NewSQLSource wraps an open database. driver selects identifier quoting.
func NewSQLSource(db *sql.DB, driver string) (*SQLSource, error) {
	if driver != DriverPostgres && driver != DriverMySQL {
		return nil, fmt.Errorf("unsupported SQL driver %q", driver)
	}
	return &SQLSource{db: db, driver: driver}, nil
}

func (s *SQLSource) Name() string { return "sql" }

// Query returns the snapshot query for the source's dialect. "user" is a
// reserved word in both dialects and must be quoted.
func (s *SQLSource) Query() string {
	userTable := `"user"`
	if s.driver == DriverMySQL {
		userTable = "`user`"
	}
	return `SELECT c.id, c.title, c.description, c.department, c.status, c.location, c.date_created, ` +
		`c.image_url, c.forwarded_to, c.is_verified, u.id, u.name, u.email ` +
		`FROM complain c LEFT JOIN ` + userTable + ` u ON u.id = c.user_id ORDER BY c.id`
}

func (s *SQLSource) Load(ctx context.Context) ([]grievance.Report, error) {
	rows, err := s.db.QueryContext(ctx, s.Query())
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports := make([]grievance.Report, 0)
	for rows.Next() {
		var (
			id                             int64
			title, description, department sql.NullString
			status, location               sql.NullString
			created                        any
			imageURL, forwardedTo          sql.NullString
			verified                       sql.NullBool
			userID                         sql.NullInt64
			userName, userEmail            sql.NullString
		)
		if err := rows.Scan(&id, &title, &description, &department, &status, &location, &created,
			&imageURL, &forwardedTo, &verified, &userID, &userName, &userEmail); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}

		r := grievance.Report{
			ID:          strconv.FormatInt(id, 10),
			Code:        grievance.FormatCode(id),
			Title:       title.String,
			Description: description.String,
			Department:  department.String,
			RawStatus:   status.String,
			Location:    nullablePtr(location),
			DateCreated: scanTime(created),
			ImageURL:    nullablePtr(imageURL),
			ForwardedTo: nullablePtr(forwardedTo),
			IsVerified:  verified.Bool,
		}
		r.Status = grievance.ParseStatus(r.RawStatus)
		if userID.Valid {
			r.User = &grievance.User{
				ID:    strconv.FormatInt(userID.Int64, 10),
				Name:  userName.String,
				Email: userEmail.String,
			}
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report rows: %w", err)
	}

	log.Debug().Str("driver", s.driver).Int("rows", len(reports)).Msg("SQL snapshot read")
	return reports, nil
}

func nullablePtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return grievance.StringPtr(ns.String)
}

// scanTime normalizes the driver-dependent representation of date_created.
// MySQL without parseTime=true returns raw bytes.
func scanTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case []byte:
		parsed, _ := grievance.ParseTime(string(t))
		return parsed
	case string:
		parsed, _ := grievance.ParseTime(t)
		return parsed
	default:
		return time.Time{}
	}
}
