package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MimoJanra/SitePulse/internal/models"
)

type ContactRepo struct {
	db *DB
}

func NewContactRepo(db *DB) *ContactRepo {
	return &ContactRepo{db: db}
}

func (r *ContactRepo) GetAll(ctx context.Context) ([]models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, address, label, created_at
		FROM contacts
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]models.Contact, 0)
	for rows.Next() {
		var (
			c     models.Contact
			ctype string
		)
		if err := rows.Scan(&c.ID, &ctype, &c.Address, &c.Label, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Type = models.ContactType(ctype)
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *ContactRepo) Add(ctx context.Context, c models.Contact) (models.Contact, error) {
	switch c.Type {
	case models.ContactEmail, models.ContactSlack, models.ContactSMS:
	default:
		return models.Contact{}, fmt.Errorf("unsupported contact type: %s", c.Type)
	}

	c.ID = uuid.New().String()
	c.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, r.db.rebind(`
		INSERT INTO contacts(id, type, address, label, created_at)
		VALUES(?, ?, ?, ?, ?)
	`), c.ID, string(c.Type), c.Address, c.Label, c.CreatedAt)
	if err != nil {
		return models.Contact{}, err
	}
	return c, nil
}

func (r *ContactRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.rebind(`DELETE FROM contacts WHERE id = ?`), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
