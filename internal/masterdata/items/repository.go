package items

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	mdshared "github.com/invoicer-app/invoicer/internal/masterdata/shared"
	"github.com/invoicer-app/invoicer/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters mdshared.ListFilters) ([]Item, int, error)
	Get(ctx context.Context, id int64) (Item, error)
	Create(ctx context.Context, item Item) (Item, error)
	Update(ctx context.Context, id int64, item Item) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, name, description, cost, price, taxable, created_at, updated_at`

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	var cost decimal.NullDecimal
	err := row.Scan(&it.ID, &it.Name, &it.Description, &cost, &it.Price,
		&it.Taxable, &it.CreatedAt, &it.UpdatedAt)
	if err == pgx.ErrNoRows {
		return Item{}, shared.ErrNotFound
	}
	if err != nil {
		return Item{}, err
	}
	if cost.Valid {
		c := cost.Decimal
		it.Cost = &c
	}
	return it, nil
}

func nullCost(it Item) decimal.NullDecimal {
	if it.Cost == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *it.Cost, Valid: true}
}

func (r *repository) List(ctx context.Context, filters mdshared.ListFilters) ([]Item, int, error) {
	query := `SELECT ` + columns + ` FROM items WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM items WHERE 1=1`
	args := []any{}

	if filters.Search != "" {
		query += ` AND (name ILIKE $1 OR description ILIKE $1)`
		countQuery += ` AND (name ILIKE $1 OR description ILIKE $1)`
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY name`
	if filters.Limit > 0 {
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		args = append(args, filters.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, it)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Item, error) {
	return scanItem(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM items WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, it Item) (Item, error) {
	const query = `
		INSERT INTO items (name, description, cost, price, taxable, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		it.Name, it.Description, nullCost(it), it.Price, it.Taxable,
	).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return Item{}, err
	}
	return it, nil
}

// Update rewrites the catalog record. Existing line items keep the snapshot
// they were created with.
func (r *repository) Update(ctx context.Context, id int64, it Item) error {
	const query = `
		UPDATE items SET name = $2, description = $3, cost = $4, price = $5,
			taxable = $6, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id,
		it.Name, it.Description, nullCost(it), it.Price, it.Taxable,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete is restricted while any line item still references the record.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
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
