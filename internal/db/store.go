package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/compsherpa/compsherpa/internal/types"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverNone     = "none"
)

// ErrMissingUserID is returned by writes keyed by user id.
var ErrMissingUserID = errors.New("user id is required")

// Store persists profiles, reports and email sign-ups. Lookups return nil, nil
// when nothing is stored.
type Store interface {
	SaveReport(ctx context.Context, report *types.Report, p *types.Profile, userID string) error
	LatestReport(ctx context.Context, userID string) (*ReportRecord, error)
	UpsertProfile(ctx context.Context, userID, email string, p *types.Profile) (*ProfileRecord, error)
	GetProfile(ctx context.Context, userID string) (*ProfileRecord, error)
	SaveSignup(ctx context.Context, email string) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// Open connects the store for driver. DriverNone (or an empty driver) returns
// a nil Store and no error.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverPostgres:
		db, err := Connect(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return db, nil
	case DriverSQLite:
		store, err := OpenSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
