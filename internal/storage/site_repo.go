package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MimoJanra/SitePulse/internal/models"
)

type SiteRepo struct {
	db *DB
}

func NewSiteRepo(db *DB) *SiteRepo { return &SiteRepo{db: db} }

const siteColumns = `id, name, url, position, created_at`

func (r *SiteRepo) GetAll(ctx context.Context) ([]models.Site, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+siteColumns+`
		FROM sites
		ORDER BY position, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sites := make([]models.Site, 0)
	for rows.Next() {
		var s models.Site
		if err := rows.Scan(&s.ID, &s.Name, &s.URL, &s.Position, &s.CreatedAt); err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

func (r *SiteRepo) GetByID(ctx context.Context, id string) (models.Site, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`
		SELECT `+siteColumns+`
		FROM sites
		WHERE id = ?
	`), id)
	var s models.Site
	err := row.Scan(&s.ID, &s.Name, &s.URL, &s.Position, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Site{}, models.ErrNotFound
	}
	return s, err
}

// Add appends a site to the end of the registry ordering.
func (r *SiteRepo) Add(ctx context.Context, name, url string) (models.Site, error) {
	var maxPos sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(position) FROM sites`).Scan(&maxPos); err != nil {
		return models.Site{}, err
	}
	position := 0
	if maxPos.Valid {
		position = int(maxPos.Int64) + 1
	}

	s := models.Site{
		ID:        uuid.New().String(),
		Name:      name,
		URL:       url,
		Position:  position,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, r.db.rebind(`
		INSERT INTO sites(id, name, url, position, created_at)
		VALUES(?, ?, ?, ?, ?)
	`), s.ID, s.Name, s.URL, s.Position, s.CreatedAt)
	if err != nil {
		return models.Site{}, err
	}
	return s, nil
}

func (r *SiteRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.rebind(`DELETE FROM sites WHERE id = ?`), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
