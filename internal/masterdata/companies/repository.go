package companies

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
	List(ctx context.Context, filters mdshared.ListFilters) ([]Company, int, error)
	Get(ctx context.Context, id int64) (Company, error)
	Create(ctx context.Context, company Company) (Company, error)
	Update(ctx context.Context, id int64, company Company) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return fmt.Errorf("%w: %s", shared.ErrReferenced, pgErr.ConstraintName)
		case "23505":
			return fmt.Errorf("%w: %s", shared.ErrDuplicate, pgErr.ConstraintName)
		}
	}
	return err
}

const columns = `id, name, contact_person, address, city, state, zip_code,
	phone, email, website, billing_email, numbering_prefix, tax_rate,
	created_at, updated_at`

func scanCompany(row pgx.Row) (Company, error) {
	var c Company
	err := row.Scan(
		&c.ID, &c.Name, &c.ContactPerson, &c.Address, &c.City, &c.State,
		&c.ZipCode, &c.Phone, &c.Email, &c.Website, &c.BillingEmail,
		&c.NumberingPrefix, &c.TaxRate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return Company{}, shared.ErrNotFound
	}
	return c, err
}

func (r *repository) List(ctx context.Context, filters mdshared.ListFilters) ([]Company, int, error) {
	query := `SELECT ` + columns + ` FROM companies WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM companies WHERE 1=1`
	args := []any{}

	if filters.Search != "" {
		query += ` AND name ILIKE $1`
		countQuery += ` AND name ILIKE $1`
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

	var out []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Company, error) {
	return scanCompany(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM companies WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, c Company) (Company, error) {
	const query = `
		INSERT INTO companies (
			name, contact_person, address, city, state, zip_code, phone,
			email, website, billing_email, numbering_prefix, tax_rate,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		c.Name, c.ContactPerson, c.Address, c.City, c.State, c.ZipCode,
		c.Phone, c.Email, c.Website, c.BillingEmail, c.NumberingPrefix, c.TaxRate,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Company{}, mapPgError(err)
	}
	return c, nil
}

func (r *repository) Update(ctx context.Context, id int64, c Company) error {
	const query = `
		UPDATE companies SET
			name = $2, contact_person = $3, address = $4, city = $5,
			state = $6, zip_code = $7, phone = $8, email = $9, website = $10,
			billing_email = $11, numbering_prefix = $12, tax_rate = $13,
			updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id,
		c.Name, c.ContactPerson, c.Address, c.City, c.State, c.ZipCode,
		c.Phone, c.Email, c.Website, c.BillingEmail, c.NumberingPrefix, c.TaxRate,
	)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete is restricted: a company with invoices or stylesheets keeps its
// foreign keys and the violation surfaces as ErrReferenced.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
