package invoicing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/invoicer-app/invoicer/internal/shared"
)

// CompanyInfo carries the company fields the engine reads.
type CompanyInfo struct {
	ID              int64
	Name            string
	NumberingPrefix string
	TaxRate         decimal.Decimal
}

// ClientInfo carries the client fields rendered on invoices.
type ClientInfo struct {
	ID      int64
	Name    string
	Project string
}

// TermsInfo carries payment terms shown on an invoice.
type TermsInfo struct {
	ID          int64
	Name        string
	Description string
}

// ReceiptRow is one historical line used for a client's receipts-to-date.
type ReceiptRow struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Taxable  bool
	TaxRate  decimal.Decimal
}

// InvoiceInput for creating invoices.
type InvoiceInput struct {
	CompanyID   int64
	ClientID    int64
	TermsID     int64
	InvoiceDate time.Time
	DueDate     time.Time
	Status      InvoiceStatus
	StatusNotes string
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides PostgreSQL backed persistence for invoicing.
type Repository struct {
	pool *pgxpool.Pool
	q    querier
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, q: pool}
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

// InsertInvoice performs the first numbering phase: the row is written with
// an empty invoice_number and the database allocates the identifier.
func (r *Repository) InsertInvoice(ctx context.Context, input InvoiceInput) (*Invoice, error) {
	const query = `
		INSERT INTO invoices (
			company_id, client_id, terms_id, invoice_date, due_date,
			status, status_notes, invoice_number, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, '', NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var inv Invoice
	err := r.q.QueryRow(ctx, query,
		input.CompanyID,
		input.ClientID,
		input.TermsID,
		input.InvoiceDate,
		input.DueDate,
		string(input.Status),
		input.StatusNotes,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}

	inv.CompanyID = input.CompanyID
	inv.ClientID = input.ClientID
	inv.TermsID = input.TermsID
	inv.InvoiceDate = input.InvoiceDate
	inv.DueDate = input.DueDate
	inv.Status = input.Status
	inv.StatusNotes = input.StatusNotes
	return &inv, nil
}

// SetNumber performs the second numbering phase. The guard on an empty
// invoice_number makes the transition one-way: an already numbered invoice
// is never rewritten.
func (r *Repository) SetNumber(ctx context.Context, id int64, number string) error {
	const query = `
		UPDATE invoices SET invoice_number = $2, updated_at = NOW()
		WHERE id = $1 AND invoice_number = ''`
	tag, err := r.q.Exec(ctx, query, id, number)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoicing: invoice %d missing or already numbered", id)
	}
	return nil
}

const invoiceColumns = `
	id, invoice_number, company_id, client_id, terms_id,
	invoice_date, due_date, status, status_notes, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	var status string
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.CompanyID, &inv.ClientID, &inv.TermsID,
		&inv.InvoiceDate, &inv.DueDate, &status, &inv.StatusNotes,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	inv.Status = InvoiceStatus(status)
	return &inv, nil
}

// GetInvoice retrieves an invoice by identifier.
func (r *Repository) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(r.q.QueryRow(ctx, query, id))
}

// GetByNumber retrieves an invoice by its assigned number.
func (r *Repository) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_number = $1`
	return scanInvoice(r.q.QueryRow(ctx, query, number))
}

// DeleteInvoice removes an invoice; owned line items cascade.
func (r *Repository) DeleteInvoice(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) listInvoices(ctx context.Context, column string, ownerID int64, limit, offset int) ([]Invoice, int, error) {
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM invoices WHERE %s = $1`, column)
	if err := r.q.QueryRow(ctx, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE %s = $1 ORDER BY id LIMIT $2 OFFSET $3`,
		invoiceColumns, column)
	rows, err := r.q.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		var status string
		err := rows.Scan(
			&inv.ID, &inv.Number, &inv.CompanyID, &inv.ClientID, &inv.TermsID,
			&inv.InvoiceDate, &inv.DueDate, &status, &inv.StatusNotes,
			&inv.CreatedAt, &inv.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		inv.Status = InvoiceStatus(status)
		invoices = append(invoices, inv)
	}
	return invoices, total, rows.Err()
}

// ListByCompany returns a company's invoices in insertion order.
func (r *Repository) ListByCompany(ctx context.Context, companyID int64, limit, offset int) ([]Invoice, int, error) {
	return r.listInvoices(ctx, "company_id", companyID, limit, offset)
}

// ListByClient returns a client's invoices in insertion order.
func (r *Repository) ListByClient(ctx context.Context, clientID int64, limit, offset int) ([]Invoice, int, error) {
	return r.listInvoices(ctx, "client_id", clientID, limit, offset)
}

// UpdateInvoiceField updates one whitelisted invoice column. The service
// validates field names and values before calling.
func (r *Repository) UpdateInvoiceField(ctx context.Context, id int64, field string, value any) error {
	columns := map[string]string{
		"invoice_date": "invoice_date",
		"due_date":     "due_date",
		"status":       "status",
		"status_notes": "status_notes",
		"terms":        "terms_id",
	}
	column, ok := columns[field]
	if !ok {
		return fmt.Errorf("invoicing: field %q not editable", field)
	}
	query := fmt.Sprintf(`UPDATE invoices SET %s = $2, updated_at = NOW() WHERE id = $1`, column)
	tag, err := r.q.Exec(ctx, query, id, value)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListLines returns an invoice's line items in insertion order.
func (r *Repository) ListLines(ctx context.Context, invoiceID int64) ([]LineItem, error) {
	const query = `
		SELECT id, invoice_id, item_id, name, description, cost, price,
			quantity, taxable, position, created_at
		FROM line_items
		WHERE invoice_id = $1
		ORDER BY position, id`

	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []LineItem
	for rows.Next() {
		var l LineItem
		var itemID pgtype.Int8
		var cost decimal.NullDecimal
		err := rows.Scan(
			&l.ID, &l.InvoiceID, &itemID, &l.Name, &l.Description, &cost,
			&l.Price, &l.Quantity, &l.Taxable, &l.Position, &l.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		l.ItemID = itemID.Int64
		if cost.Valid {
			c := cost.Decimal
			l.Cost = &c
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// InsertLine appends a line item to an invoice.
func (r *Repository) InsertLine(ctx context.Context, invoiceID int64, line LineItem) (*LineItem, error) {
	const query = `
		INSERT INTO line_items (
			invoice_id, item_id, name, description, cost, price,
			quantity, taxable, position, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM line_items WHERE invoice_id = $1),
			NOW())
		RETURNING id, position, created_at`

	var itemID pgtype.Int8
	if line.ItemID > 0 {
		itemID = pgtype.Int8{Int64: line.ItemID, Valid: true}
	}
	var cost decimal.NullDecimal
	if line.Cost != nil {
		cost = decimal.NullDecimal{Decimal: *line.Cost, Valid: true}
	}

	err := r.q.QueryRow(ctx, query,
		invoiceID,
		itemID,
		line.Name,
		line.Description,
		cost,
		line.Price,
		line.Quantity,
		line.Taxable,
	).Scan(&line.ID, &line.Position, &line.CreatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	line.InvoiceID = invoiceID
	return &line, nil
}

// UpdateLine rewrites an existing line's editable fields.
func (r *Repository) UpdateLine(ctx context.Context, line LineItem) error {
	const query = `
		UPDATE line_items
		SET name = $3, description = $4, price = $5, quantity = $6, taxable = $7
		WHERE id = $1 AND invoice_id = $2`
	tag, err := r.q.Exec(ctx, query,
		line.ID, line.InvoiceID,
		line.Name, line.Description, line.Price, line.Quantity, line.Taxable,
	)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteLine removes one line item from an invoice.
func (r *Repository) DeleteLine(ctx context.Context, invoiceID, lineID int64) error {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM line_items WHERE id = $1 AND invoice_id = $2`, lineID, invoiceID)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GetItemSnapshot loads the catalog fields copied onto new line items.
func (r *Repository) GetItemSnapshot(ctx context.Context, itemID int64) (ItemSnapshot, error) {
	const query = `SELECT name, description, cost, price, taxable FROM items WHERE id = $1`
	var snap ItemSnapshot
	var cost decimal.NullDecimal
	err := r.q.QueryRow(ctx, query, itemID).Scan(
		&snap.Name, &snap.Description, &cost, &snap.Price, &snap.Taxable)
	if err == pgx.ErrNoRows {
		return ItemSnapshot{}, fmt.Errorf("%w: item %d", shared.ErrItemRef, itemID)
	}
	if err != nil {
		return ItemSnapshot{}, err
	}
	if cost.Valid {
		c := cost.Decimal
		snap.Cost = &c
	}
	return snap, nil
}

// Company loads the fields the engine needs from a company.
func (r *Repository) Company(ctx context.Context, id int64) (CompanyInfo, error) {
	const query = `SELECT id, name, numbering_prefix, tax_rate FROM companies WHERE id = $1`
	var c CompanyInfo
	err := r.q.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.NumberingPrefix, &c.TaxRate)
	if err == pgx.ErrNoRows {
		return CompanyInfo{}, shared.ErrNotFound
	}
	return c, err
}

// Client loads the client fields rendered on invoices.
func (r *Repository) Client(ctx context.Context, id int64) (ClientInfo, error) {
	const query = `SELECT id, name, project FROM clients WHERE id = $1`
	var c ClientInfo
	err := r.q.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Project)
	if err == pgx.ErrNoRows {
		return ClientInfo{}, shared.ErrNotFound
	}
	return c, err
}

// Terms loads payment terms.
func (r *Repository) Terms(ctx context.Context, id int64) (TermsInfo, error) {
	const query = `SELECT id, name, description FROM terms WHERE id = $1`
	var t TermsInfo
	err := r.q.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Description)
	if err == pgx.ErrNoRows {
		return TermsInfo{}, shared.ErrNotFound
	}
	return t, err
}

// ClientReceiptRows returns every line billed to a client together with the
// issuing company's tax rate, for the receipts-to-date figure.
func (r *Repository) ClientReceiptRows(ctx context.Context, clientID int64) ([]ReceiptRow, error) {
	const query = `
		SELECT l.price, l.quantity, l.taxable, c.tax_rate
		FROM line_items l
		JOIN invoices i ON i.id = l.invoice_id
		JOIN companies c ON c.id = i.company_id
		WHERE i.client_id = $1`

	rows, err := r.q.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReceiptRow
	for rows.Next() {
		var row ReceiptRow
		if err := rows.Scan(&row.Price, &row.Quantity, &row.Taxable, &row.TaxRate); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// TxPort exposes the line operations available inside a batch transaction.
type TxPort interface {
	ListLines(ctx context.Context, invoiceID int64) ([]LineItem, error)
	InsertLine(ctx context.Context, invoiceID int64, line LineItem) (*LineItem, error)
	UpdateLine(ctx context.Context, line LineItem) error
	DeleteLine(ctx context.Context, invoiceID, lineID int64) error
	GetItemSnapshot(ctx context.Context, itemID int64) (ItemSnapshot, error)
}

// WithTx runs fn inside a transaction so a batch of line edits lands
// atomically against one invoice.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxPort) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &Repository{pool: r.pool, q: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
