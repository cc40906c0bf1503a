package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MimoJanra/SitePulse/internal/models"
)

type IncidentRepo struct {
	db *DB
}

func NewIncidentRepo(db *DB) *IncidentRepo { return &IncidentRepo{db: db} }

const incidentColumns = `id, site_id, check_id, status, opened_at, resolved_at`

func (r *IncidentRepo) HasOpen(ctx context.Context, siteID string) (bool, error) {
	var id string
	err := r.db.QueryRowContext(ctx, r.db.rebind(`
		SELECT id FROM incidents
		WHERE site_id = ? AND status = ?
		LIMIT 1
	`), siteID, string(models.IncidentOpen)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts an open incident. The one-open-incident-per-site index turns
// a concurrent duplicate into models.ErrIncidentAlreadyOpen.
func (r *IncidentRepo) Create(ctx context.Context, inc models.Incident) (models.Incident, error) {
	if inc.ID == "" {
		inc.ID = uuid.New().String()
	}
	if inc.OpenedAt.IsZero() {
		inc.OpenedAt = time.Now()
	}
	inc.OpenedAt = inc.OpenedAt.UTC()
	inc.Status = models.IncidentOpen
	inc.ResolvedAt = nil

	_, err := r.db.ExecContext(ctx, r.db.rebind(`
		INSERT INTO incidents(id, site_id, check_id, status, opened_at)
		VALUES(?, ?, ?, ?, ?)
	`), inc.ID, inc.SiteID, inc.CheckID, string(inc.Status), inc.OpenedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Incident{}, fmt.Errorf("site %s: %w", inc.SiteID, models.ErrIncidentAlreadyOpen)
		}
		return models.Incident{}, err
	}
	return inc, nil
}

// Resolve moves an open incident to resolved. Resolving an unknown or already
// resolved incident returns models.ErrNotFound.
func (r *IncidentRepo) Resolve(ctx context.Context, id string, at time.Time) (models.Incident, error) {
	res, err := r.db.ExecContext(ctx, r.db.rebind(`
		UPDATE incidents
		SET status = ?, resolved_at = ?
		WHERE id = ? AND status = ?
	`), string(models.IncidentResolved), at.UTC(), id, string(models.IncidentOpen))
	if err != nil {
		return models.Incident{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Incident{}, err
	}
	if n == 0 {
		return models.Incident{}, models.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *IncidentRepo) GetByID(ctx context.Context, id string) (models.Incident, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`
		SELECT `+incidentColumns+`
		FROM incidents
		WHERE id = ?
	`), id)
	inc, err := scanIncident(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Incident{}, models.ErrNotFound
	}
	return inc, err
}

// List returns incidents newest first, optionally filtered by status.
func (r *IncidentRepo) List(ctx context.Context, status models.IncidentStatus) ([]models.Incident, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status != "" {
		rows, err = r.db.QueryContext(ctx, r.db.rebind(`
			SELECT `+incidentColumns+`
			FROM incidents
			WHERE status = ?
			ORDER BY opened_at DESC
		`), string(status))
	} else {
		rows, err = r.db.QueryContext(ctx, `
			SELECT `+incidentColumns+`
			FROM incidents
			ORDER BY opened_at DESC
		`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incidents := make([]models.Incident, 0)
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, inc)
	}
	return incidents, rows.Err()
}

func scanIncident(s scanner) (models.Incident, error) {
	var (
		inc        models.Incident
		status     string
		resolvedAt sql.NullTime
	)
	if err := s.Scan(&inc.ID, &inc.SiteID, &inc.CheckID, &status, &inc.OpenedAt, &resolvedAt); err != nil {
		return models.Incident{}, err
	}
	inc.Status = models.IncidentStatus(status)
	if resolvedAt.Valid {
		t := resolvedAt.Time
		inc.ResolvedAt = &t
	}
	return inc, nil
}
