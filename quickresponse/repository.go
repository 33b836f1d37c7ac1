package quickresponse

import (
	"database/sql"
	"errors"

	"github.com/eben2468/srcwebsite-sub008/errs"
	"github.com/jmoiron/sqlx"
)

type QuickResponseRepository struct {
	db *sqlx.DB
}

func NewQuickResponseRepository(db *sqlx.DB) *QuickResponseRepository {
	return &QuickResponseRepository{db: db}
}

func (r *QuickResponseRepository) List(category string) ([]QuickResponse, error) {
	responses := []QuickResponse{}

	if category != "" {
		query := `
			SELECT id, category, title, message, created_at
			FROM quick_responses
			WHERE category = $1
			ORDER BY title ASC
		`
		if err := r.db.Select(&responses, query, category); err != nil {
			return nil, err
		}
		return responses, nil
	}

	query := `
		SELECT id, category, title, message, created_at
		FROM quick_responses
		ORDER BY category ASC, title ASC
	`
	if err := r.db.Select(&responses, query); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *QuickResponseRepository) GetByID(id int) (*QuickResponse, error) {
	var qr QuickResponse
	query := `SELECT id, category, title, message, created_at FROM quick_responses WHERE id = $1`
	if err := r.db.Get(&qr, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.E(errs.KindNotFound, "quick response not found")
		}
		return nil, err
	}
	return &qr, nil
}

func (r *QuickResponseRepository) Create(qr *QuickResponse) error {
	query := `
		INSERT INTO quick_responses (category, title, message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRow(query, qr.Category, qr.Title, qr.Message).
		Scan(&qr.ID, &qr.CreatedAt)
}

func (r *QuickResponseRepository) Update(qr *QuickResponse) error {
	result, err := r.db.Exec(`
		UPDATE quick_responses
		SET category = $1, title = $2, message = $3
		WHERE id = $4
	`, qr.Category, qr.Title, qr.Message, qr.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errs.E(errs.KindNotFound, "quick response not found")
	}
	return nil
}

func (r *QuickResponseRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM quick_responses WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errs.E(errs.KindNotFound, "quick response not found")
	}
	return nil
}
