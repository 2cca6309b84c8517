package terms

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
	List(ctx context.Context) ([]Terms, error)
	Get(ctx context.Context, id int64) (Terms, error)
	Create(ctx context.Context, t Terms) (Terms, error)
	Update(ctx context.Context, id int64, t Terms) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]Terms, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description FROM terms ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Terms
	for rows.Next() {
		var t Terms
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Terms, error) {
	var t Terms
	err := r.pool.QueryRow(ctx, `SELECT id, name, description FROM terms WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Description)
	if err == pgx.ErrNoRows {
		return Terms{}, shared.ErrNotFound
	}
	return t, err
}

func (r *repository) Create(ctx context.Context, t Terms) (Terms, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO terms (name, description) VALUES ($1, $2) RETURNING id`,
		t.Name, t.Description,
	).Scan(&t.ID)
	return t, err
}

func (r *repository) Update(ctx context.Context, id int64, t Terms) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE terms SET name = $2, description = $3 WHERE id = $1`,
		id, t.Name, t.Description,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete is restricted while any invoice references the terms.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM terms WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: %s", shared.ErrReferenced, pgErr.ConstraintName)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
