// Package db persists profiles, reports and email sign-ups in PostgreSQL (pgx)
// or, for local runs, SQLite (gorm).
package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/compsherpa/compsherpa/internal/types"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Migrate creates the tables if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// SaveReport stores a report together with the profile snapshot that produced it.
func (db *DB) SaveReport(ctx context.Context, report *types.Report, p *types.Profile, userID string) error {
	if userID == "" {
		return ErrMissingUserID
	}
	rec, err := newReportRecord(report, p, userID, time.Now().UTC())
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO reports (id, user_id, fingerprint, profile_snapshot, report_data, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.UserID, rec.Fingerprint, []byte(rec.ProfileSnapshot), []byte(rec.ReportData), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// LatestReport returns the most recent report saved for a user
func (db *DB) LatestReport(ctx context.Context, userID string) (*ReportRecord, error) {
	var rec ReportRecord
	var snapshot, data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, fingerprint, profile_snapshot, report_data, created_at
		 FROM reports WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		userID,
	).Scan(&rec.ID, &rec.UserID, &rec.Fingerprint, &snapshot, &data, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest report: %w", err)
	}
	rec.ProfileSnapshot = snapshot
	rec.ReportData = data
	return &rec, nil
}

// UpsertProfile creates or replaces the profile stored for a user
func (db *DB) UpsertProfile(ctx context.Context, userID, email string, p *types.Profile) (*ProfileRecord, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	rec, err := newProfileRecord(userID, email, p, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO user_profiles (id, user_id, email, degree_type, years_experience, target_role,
		     target_location, other_offers, current_salary, minimum_salary, target_salary, profile,
		     created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		 ON CONFLICT (user_id) DO UPDATE SET
		     email = EXCLUDED.email,
		     degree_type = EXCLUDED.degree_type,
		     years_experience = EXCLUDED.years_experience,
		     target_role = EXCLUDED.target_role,
		     target_location = EXCLUDED.target_location,
		     other_offers = EXCLUDED.other_offers,
		     current_salary = EXCLUDED.current_salary,
		     minimum_salary = EXCLUDED.minimum_salary,
		     target_salary = EXCLUDED.target_salary,
		     profile = EXCLUDED.profile,
		     updated_at = EXCLUDED.updated_at
		 RETURNING id, created_at, updated_at`,
		rec.ID, rec.UserID, rec.Email, rec.DegreeType, rec.YearsExperience, rec.TargetRole,
		rec.TargetLocation, rec.OtherOffers, rec.CurrentSalary, rec.MinimumSalary, rec.TargetSalary,
		[]byte(rec.Profile), rec.CreatedAt,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return rec, nil
}

// GetProfile retrieves the profile stored for a user
func (db *DB) GetProfile(ctx context.Context, userID string) (*ProfileRecord, error) {
	var rec ProfileRecord
	var email, degree, role, location *string
	var profile []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, email, degree_type, years_experience, target_role, target_location,
		        other_offers, current_salary, minimum_salary, target_salary, profile, created_at, updated_at
		 FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&rec.ID, &rec.UserID, &email, &degree, &rec.YearsExperience, &role, &location,
		&rec.OtherOffers, &rec.CurrentSalary, &rec.MinimumSalary, &rec.TargetSalary, &profile,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	rec.Email = deref(email)
	rec.DegreeType = deref(degree)
	rec.TargetRole = deref(role)
	rec.TargetLocation = deref(location)
	rec.Profile = profile
	return &rec, nil
}

// SaveSignup records an email sign-up
func (db *DB) SaveSignup(ctx context.Context, email string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO email_signups (id, email) VALUES ($1, $2)`,
		uuid.New(), normalizeEmail(email),
	)
	if err != nil {
		return fmt.Errorf("failed to save signup: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
