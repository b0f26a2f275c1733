package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/compsherpa/compsherpa/internal/types"
)

// profileRow is the gorm model for user_profiles.
type profileRow struct {
	ID              string `gorm:"primaryKey"`
	UserID          string `gorm:"uniqueIndex;not null"`
	Email           string
	DegreeType      string
	YearsExperience int
	TargetRole      string
	TargetLocation  string
	OtherOffers     int
	CurrentSalary   *int
	MinimumSalary   *int
	TargetSalary    *int
	Profile         datatypes.JSON
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (profileRow) TableName() string { return "user_profiles" }

// reportRow is the gorm model for reports.
type reportRow struct {
	ID              string `gorm:"primaryKey"`
	UserID          string `gorm:"index:idx_reports_user_created;not null"`
	Fingerprint     string
	ProfileSnapshot datatypes.JSON
	ReportData      datatypes.JSON
	CreatedAt       time.Time `gorm:"index:idx_reports_user_created"`
}

func (reportRow) TableName() string { return "reports" }

// signupRow is the gorm model for email_signups.
type signupRow struct {
	ID        string `gorm:"primaryKey"`
	Email     string `gorm:"not null"`
	CreatedAt time.Time
}

func (signupRow) TableName() string { return "email_signups" }

// SQLiteStore is a single-file Store for local runs and tests.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the database file at path and migrates it.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.AutoMigrate(&profileRow{}, &reportRow{}, &signupRow{}); err != nil {
		return nil, fmt.Errorf("auto migrate models: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

// Ping verifies the database file is usable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// SaveReport stores a report together with the profile snapshot that produced it.
func (s *SQLiteStore) SaveReport(ctx context.Context, report *types.Report, p *types.Profile, userID string) error {
	if userID == "" {
		return ErrMissingUserID
	}
	rec, err := newReportRecord(report, p, userID, time.Now().UTC())
	if err != nil {
		return err
	}
	row := reportRow{
		ID:              rec.ID.String(),
		UserID:          rec.UserID,
		Fingerprint:     rec.Fingerprint,
		ProfileSnapshot: datatypes.JSON(rec.ProfileSnapshot),
		ReportData:      datatypes.JSON(rec.ReportData),
		CreatedAt:       rec.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// LatestReport returns the most recent report saved for a user.
func (s *SQLiteStore) LatestReport(ctx context.Context, userID string) (*ReportRecord, error) {
	var row reportRow
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest report: %w", err)
	}
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt report id %q: %w", row.ID, err)
	}
	return &ReportRecord{
		ID:              id,
		UserID:          row.UserID,
		Fingerprint:     row.Fingerprint,
		ProfileSnapshot: []byte(row.ProfileSnapshot),
		ReportData:      []byte(row.ReportData),
		CreatedAt:       row.CreatedAt,
	}, nil
}

// UpsertProfile creates or replaces the profile stored for a user.
func (s *SQLiteStore) UpsertProfile(ctx context.Context, userID, email string, p *types.Profile) (*ProfileRecord, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	rec, err := newProfileRecord(userID, email, p, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	row := profileRow{
		ID:              rec.ID.String(),
		UserID:          rec.UserID,
		Email:           rec.Email,
		DegreeType:      rec.DegreeType,
		YearsExperience: rec.YearsExperience,
		TargetRole:      rec.TargetRole,
		TargetLocation:  rec.TargetLocation,
		OtherOffers:     rec.OtherOffers,
		CurrentSalary:   rec.CurrentSalary,
		MinimumSalary:   rec.MinimumSalary,
		TargetSalary:    rec.TargetSalary,
		Profile:         datatypes.JSON(rec.Profile),
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}

	tx := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email",
			"degree_type",
			"years_experience",
			"target_role",
			"target_location",
			"other_offers",
			"current_salary",
			"minimum_salary",
			"target_salary",
			"profile",
			"updated_at",
		}),
	}).Create(&row)
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", tx.Error)
	}
	return s.GetProfile(ctx, userID)
}

// GetProfile retrieves the profile stored for a user.
func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*ProfileRecord, error) {
	var row profileRow
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt profile id %q: %w", row.ID, err)
	}
	return &ProfileRecord{
		ID:              id,
		UserID:          row.UserID,
		Email:           row.Email,
		DegreeType:      row.DegreeType,
		YearsExperience: row.YearsExperience,
		TargetRole:      row.TargetRole,
		TargetLocation:  row.TargetLocation,
		OtherOffers:     row.OtherOffers,
		CurrentSalary:   row.CurrentSalary,
		MinimumSalary:   row.MinimumSalary,
		TargetSalary:    row.TargetSalary,
		Profile:         []byte(row.Profile),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}

// SaveSignup records an email sign-up.
func (s *SQLiteStore) SaveSignup(ctx context.Context, email string) error {
	row := signupRow{ID: uuid.NewString(), Email: normalizeEmail(email), CreatedAt: time.Now().UTC()}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save signup: %w", err)
	}
	return nil
}

// Signups returns all captured sign-ups, oldest first.
func (s *SQLiteStore) Signups(ctx context.Context) ([]Signup, error) {
	var rows []signupRow
	if err := s.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list signups: %w", err)
	}
	out := make([]Signup, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			return nil, fmt.Errorf("corrupt signup id %q: %w", row.ID, err)
		}
		out = append(out, Signup{ID: id, Email: row.Email, CreatedAt: row.CreatedAt})
	}
	return out, nil
}
