package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/MimoJanra/SitePulse/internal/models"
)

type CheckRepo struct {
	db *DB
}

func NewCheckRepo(db *DB) *CheckRepo { return &CheckRepo{db: db} }

const checkColumns = `id, site_id, status, status_code, error, duration_ms, checked_at`

// Add persists c, assigning an ID and a checked_at timestamp when missing.
func (r *CheckRepo) Add(ctx context.Context, c models.Check) (models.Check, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CheckedAt.IsZero() {
		c.CheckedAt = time.Now()
	}
	c.CheckedAt = c.CheckedAt.UTC()

	var statusCode sql.NullInt64
	if c.StatusCode != nil {
		statusCode = sql.NullInt64{Int64: int64(*c.StatusCode), Valid: true}
	}
	var errMsg sql.NullString
	if c.Error != nil {
		errMsg = sql.NullString{String: *c.Error, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, r.db.rebind(`
		INSERT INTO checks(id, site_id, status, status_code, error, duration_ms, checked_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)
	`), c.ID, c.SiteID, string(c.Status), statusCode, errMsg, c.DurationMS, c.CheckedAt)
	if err != nil {
		return models.Check{}, err
	}
	return c, nil
}

// GetRecentFailures returns the site's failing checks with checked_at >= since.
func (r *CheckRepo) GetRecentFailures(ctx context.Context, siteID string, since time.Time) ([]models.Check, error) {
	return r.query(ctx, `
		SELECT `+checkColumns+`
		FROM checks
		WHERE site_id = ? AND status = ? AND checked_at >= ?
		ORDER BY checked_at DESC
	`, siteID, string(models.CheckFailure), since.UTC())
}

func (r *CheckRepo) GetSince(ctx context.Context, siteID string, since time.Time) ([]models.Check, error) {
	return r.query(ctx, `
		SELECT `+checkColumns+`
		FROM checks
		WHERE site_id = ? AND checked_at >= ?
		ORDER BY checked_at DESC
	`, siteID, since.UTC())
}

func (r *CheckRepo) GetBySiteID(ctx context.Context, siteID string, limit int) ([]models.Check, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.query(ctx, `
		SELECT `+checkColumns+`
		FROM checks
		WHERE site_id = ?
		ORDER BY checked_at DESC
		LIMIT ?
	`, siteID, limit)
}

func (r *CheckRepo) query(ctx context.Context, query string, args ...any) ([]models.Check, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checks := make([]models.Check, 0)
	for rows.Next() {
		c, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}
		checks = append(checks, c)
	}
	return checks, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCheck(s scanner) (models.Check, error) {
	var (
		c          models.Check
		status     string
		statusCode sql.NullInt64
		errMsg     sql.NullString
	)
	if err := s.Scan(&c.ID, &c.SiteID, &status, &statusCode, &errMsg, &c.DurationMS, &c.CheckedAt); err != nil {
		return models.Check{}, err
	}
	c.Status = models.CheckStatus(status)
	if statusCode.Valid {
		code := int(statusCode.Int64)
		c.StatusCode = &code
	}
	if errMsg.Valid {
		msg := errMsg.String
		c.Error = &msg
	}
	return c, nil
}
