package stylesheets

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invoicer-app/invoicer/internal/shared"
)

type Repository interface {
	ListByCompany(ctx context.Context, companyID int64) ([]Stylesheet, error)
	Get(ctx context.Context, id int64) (Stylesheet, error)
	DefaultForCompany(ctx context.Context, companyID int64) (Stylesheet, error)
	Create(ctx context.Context, sheet Stylesheet) (Stylesheet, error)
	Update(ctx context.Context, id int64, sheet Stylesheet) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, company_id, name, description, path,
	introduction_text, feedback_text, misc_text, thank_you_text, created_at`

func scanSheet(row pgx.Row) (Stylesheet, error) {
	var s Stylesheet
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Name, &s.Description, &s.Path,
		&s.IntroductionText, &s.FeedbackText, &s.MiscText, &s.ThankYouText,
		&s.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return Stylesheet{}, shared.ErrNotFound
	}
	return s, err
}

func (r *repository) ListByCompany(ctx context.Context, companyID int64) ([]Stylesheet, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM stylesheets WHERE company_id = $1 ORDER BY id`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Stylesheet
	for rows.Next() {
		s, err := scanSheet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Stylesheet, error) {
	return scanSheet(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM stylesheets WHERE id = $1`, id))
}

// DefaultForCompany selects the most recently created stylesheet. No
// stylesheet is an explicit configuration error, never an out-of-range read.
func (r *repository) DefaultForCompany(ctx context.Context, companyID int64) (Stylesheet, error) {
	s, err := scanSheet(r.pool.QueryRow(ctx,
		`SELECT `+columns+` FROM stylesheets WHERE company_id = $1 ORDER BY id DESC LIMIT 1`,
		companyID))
	if errors.Is(err, shared.ErrNotFound) {
		return Stylesheet{}, fmt.Errorf("%w: company %d", shared.ErrNoStylesheet, companyID)
	}
	return s, err
}

func (r *repository) Create(ctx context.Context, s Stylesheet) (Stylesheet, error) {
	const query = `
		INSERT INTO stylesheets (
			company_id, name, description, path,
			introduction_text, feedback_text, misc_text, thank_you_text, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		s.CompanyID, s.Name, s.Description, s.Path,
		s.IntroductionText, s.FeedbackText, s.MiscText, s.ThankYouText,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Stylesheet{}, fmt.Errorf("%w: company %d", shared.ErrNotFound, s.CompanyID)
		}
		return Stylesheet{}, err
	}
	return s, nil
}

func (r *repository) Update(ctx context.Context, id int64, s Stylesheet) error {
	const query = `
		UPDATE stylesheets SET
			name = $2, description = $3, path = $4, introduction_text = $5,
			feedback_text = $6, misc_text = $7, thank_you_text = $8
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id,
		s.Name, s.Description, s.Path,
		s.IntroductionText, s.FeedbackText, s.MiscText, s.ThankYouText,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM stylesheets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
