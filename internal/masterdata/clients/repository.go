package clients

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	mdshared "github.com/invoicer-app/invoicer/internal/masterdata/shared"
	"github.com/invoicer-app/invoicer/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters mdshared.ListFilters) ([]Client, int, error)
	Get(ctx context.Context, id int64) (Client, error)
	Create(ctx context.Context, client Client) (Client, error)
	Update(ctx context.Context, id int64, client Client) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, name, contact_person, address, city, state, zip_code,
	phone, email, project, created_at, updated_at`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(
		&c.ID, &c.Name, &c.ContactPerson, &c.Address, &c.City, &c.State,
		&c.ZipCode, &c.Phone, &c.Email, &c.Project, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return Client{}, shared.ErrNotFound
	}
	return c, err
}

func (r *repository) List(ctx context.Context, filters mdshared.ListFilters) ([]Client, int, error) {
	query := `SELECT ` + columns + ` FROM clients WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM clients WHERE 1=1`
	args := []any{}

	if filters.Search != "" {
		query += ` AND (name ILIKE $1 OR project ILIKE $1)`
		countQuery += ` AND (name ILIKE $1 OR project ILIKE $1)`
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

	var out []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Client, error) {
	return scanClient(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM clients WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, c Client) (Client, error) {
	const query = `
		INSERT INTO clients (
			name, contact_person, address, city, state, zip_code, phone,
			email, project, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		c.Name, c.ContactPerson, c.Address, c.City, c.State, c.ZipCode,
		c.Phone, c.Email, c.Project,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Client{}, err
	}
	return c, nil
}

func (r *repository) Update(ctx context.Context, id int64, c Client) error {
	const query = `
		UPDATE clients SET
			name = $2, contact_person = $3, address = $4, city = $5,
			state = $6, zip_code = $7, phone = $8, email = $9, project = $10,
			updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id,
		c.Name, c.ContactPerson, c.Address, c.City, c.State, c.ZipCode,
		c.Phone, c.Email, c.Project,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete is restricted while the client has invoices.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
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
