package invoicing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/invoicer-app/invoicer/internal/shared"
)

// RepositoryPort defines data access methods for invoicing.
type RepositoryPort interface {
	InsertInvoice(ctx context.Context, input InvoiceInput) (*Invoice, error)
	SetNumber(ctx context.Context, id int64, number string) error
	GetInvoice(ctx context.Context, id int64) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error
	ListByCompany(ctx context.Context, companyID int64, limit, offset int) ([]Invoice, int, error)
	ListByClient(ctx context.Context, clientID int64, limit, offset int) ([]Invoice, int, error)
	UpdateInvoiceField(ctx context.Context, id int64, field string, value any) error
	ListLines(ctx context.Context, invoiceID int64) ([]LineItem, error)
	InsertLine(ctx context.Context, invoiceID int64, line LineItem) (*LineItem, error)
	GetItemSnapshot(ctx context.Context, itemID int64) (ItemSnapshot, error)
	Company(ctx context.Context, id int64) (CompanyInfo, error)
	Client(ctx context.Context, id int64) (ClientInfo, error)
	Terms(ctx context.Context, id int64) (TermsInfo, error)
	ClientReceiptRows(ctx context.Context, clientID int64) ([]ReceiptRow, error)
	WithTx(ctx context.Context, fn func(context.Context, TxPort) error) error
}

// Service handles invoicing business logic.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
	printer  *message.Printer
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
		printer:  message.NewPrinter(language.English),
	}
}

// CreateInvoiceRequest carries a new invoice submission.
type CreateInvoiceRequest struct {
	CompanyID   int64  `json:"company_id" validate:"required"`
	ClientID    int64  `json:"client_id" validate:"required"`
	TermsID     int64  `json:"terms_id" validate:"required"`
	InvoiceDate string `json:"invoice_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate     string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Status      string `json:"status" validate:"omitempty,oneof=unsent sent partial paid other"`
	StatusNotes string `json:"status_notes" validate:"max=128"`
}

func (s *Service) fieldErrors(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := shared.FieldErrors{}
	for _, fe := range verrs {
		fields.Add(strings.ToLower(fe.Field()), "invalid value ("+fe.Tag()+")")
	}
	return fields
}

// CreateInvoice persists a new invoice and assigns its number. Numbering is
// an explicit two-phase protocol: the first write lets the database allocate
// the identifier, the second stores prefix + zero-padded id. The repository
// guard keeps the transition one-way, so re-saving never renumbers.
func (s *Service) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, s.fieldErrors(err)
	}

	company, err := s.repo.Company(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	input := InvoiceInput{
		CompanyID:   req.CompanyID,
		ClientID:    req.ClientID,
		TermsID:     req.TermsID,
		InvoiceDate: today,
		DueDate:     today,
		Status:      StatusUnsent,
		StatusNotes: req.StatusNotes,
	}
	if req.InvoiceDate != "" {
		input.InvoiceDate, _ = time.Parse("2006-01-02", req.InvoiceDate)
	}
	if req.DueDate != "" {
		input.DueDate, _ = time.Parse("2006-01-02", req.DueDate)
	}
	if req.Status != "" {
		input.Status = InvoiceStatus(req.Status)
	}

	inv, err := s.repo.InsertInvoice(ctx, input)
	if err != nil {
		return nil, err
	}
	if inv.Number == "" {
		number := FormatNumber(company.NumberingPrefix, inv.ID)
		if err := s.repo.SetNumber(ctx, inv.ID, number); err != nil {
			return nil, err
		}
		inv.Number = number
	}
	return inv, nil
}

// LineView decorates a stored line with its computed figures.
type LineView struct {
	LineItem
	ExtendedPrice decimal.Decimal
	Total         decimal.Decimal
}

// DisplayTotals is the grouped, human-formatted rendering of invoice totals
// for the printable view.
type DisplayTotals struct {
	TaxableAmount string
	Tax           string
	Subtotal      string
	GrandTotal    string
}

// InvoiceView is the printable-invoice payload: the invoice, its parties,
// its lines with computed figures, and the aggregated totals.
type InvoiceView struct {
	Invoice
	Company CompanyInfo
	Client  ClientInfo
	Terms   TermsInfo
	Lines   []LineView
	Totals  Totals
	Display DisplayTotals
}

// money renders a two-place amount for display. The decimal's own fixed
// formatting keeps digits exact; the printer stays in charge of locale.
func (s *Service) money(d decimal.Decimal) string {
	return s.printer.Sprintf("%s", d.StringFixed(2))
}

func (s *Service) buildView(ctx context.Context, inv *Invoice) (*InvoiceView, error) {
	company, err := s.repo.Company(ctx, inv.CompanyID)
	if err != nil {
		return nil, err
	}
	client, err := s.repo.Client(ctx, inv.ClientID)
	if err != nil {
		return nil, err
	}
	terms, err := s.repo.Terms(ctx, inv.TermsID)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.ListLines(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	views := make([]LineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, LineView{
			LineItem:      l,
			ExtendedPrice: l.ExtendedPrice(),
			Total:         l.Total(company.TaxRate),
		})
	}
	totals := ComputeTotals(lines, company.TaxRate)

	return &InvoiceView{
		Invoice: *inv,
		Company: company,
		Client:  client,
		Terms:   terms,
		Lines:   views,
		Totals:  totals,
		Display: DisplayTotals{
			TaxableAmount: s.money(totals.TaxableAmount),
			Tax:           s.money(totals.Tax),
			Subtotal:      s.money(totals.Subtotal),
			GrandTotal:    s.money(totals.GrandTotal),
		},
	}, nil
}

// InvoiceByNumber loads the printable payload for an assigned number.
func (s *Service) InvoiceByNumber(ctx context.Context, number string) (*InvoiceView, error) {
	inv, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, inv)
}

// DeleteInvoice removes an invoice and, through ownership, its lines.
func (s *Service) DeleteInvoice(ctx context.Context, number string) error {
	inv, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return err
	}
	return s.repo.DeleteInvoice(ctx, inv.ID)
}

// LineInput carries one submitted line. Price and quantity arrive as the
// raw strings the form posted so a non-numeric value becomes a field error,
// not a decode failure.
type LineInput struct {
	ItemID      int64  `json:"item_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Quantity    string `json:"quantity"`
	Taxable     bool   `json:"taxable"`
}

// parseLine validates one submitted line. snapshot is true only for unsaved
// lines: a new item-backed line takes every field but quantity from the
// catalog snapshot. A stored line always carries its full field set on
// update; its item reference is a weak pointer and never refills fields, so
// a quantity-only resubmission cannot hollow out the stored values.
func parseLine(in LineInput, prefix string, fields shared.FieldErrors, snapshot bool) (LineItem, bool) {
	var line LineItem
	ok := true
	line.ItemID = in.ItemID

	qty := in.Quantity
	if qty == "" {
		fields.Add(prefix+"quantity", "this field is required")
		ok = false
	} else if q, err := decimal.NewFromString(qty); err != nil {
		fields.Add(prefix+"quantity", "enter a number")
		ok = false
	} else {
		line.Quantity = q
	}

	if snapshot && in.ItemID > 0 {
		return line, ok
	}

	if strings.TrimSpace(in.Name) == "" {
		fields.Add(prefix+"name", "this field is required")
		ok = false
	}
	if in.Price == "" {
		fields.Add(prefix+"price", "this field is required")
		ok = false
	} else if p, err := decimal.NewFromString(in.Price); err != nil {
		fields.Add(prefix+"price", "enter a number")
		ok = false
	} else {
		line.Price = p
	}

	line.Name = in.Name
	line.Description = in.Description
	line.Taxable = in.Taxable
	return line, ok
}

// AddLine appends one line to an invoice. A line holding an item reference
// is built from the catalog snapshot at this moment and decoupled afterward.
func (s *Service) AddLine(ctx context.Context, number string, in LineInput) (*LineItem, error) {
	inv, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	fields := shared.FieldErrors{}
	line, ok := parseLine(in, "", fields, true)
	if !ok {
		return nil, fields
	}

	if line.ItemID > 0 {
		snap, err := s.repo.GetItemSnapshot(ctx, line.ItemID)
		if err != nil {
			return nil, err
		}
		line = LineFromItem(line.ItemID, snap, line.Quantity)
	}
	return s.repo.InsertLine(ctx, inv.ID, line)
}

// LineEdit is one entry of a batch upsert: ID zero adds a line, Delete
// removes it, anything else rewrites the stored line.
type LineEdit struct {
	ID     int64 `json:"id"`
	Delete bool  `json:"delete"`
	LineInput
}

// BatchUpsertLines applies a set of line edits atomically against one
// invoice. Validation failures are collected per field, keyed the way the
// form names them (lineitem-<index>-<field>), and returned as one batch.
func (s *Service) BatchUpsertLines(ctx context.Context, number string, edits []LineEdit) error {
	inv, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return err
	}

	fields := shared.FieldErrors{}
	parsed := make([]LineItem, len(edits))
	for i, edit := range edits {
		if edit.Delete {
			if edit.ID == 0 {
				fields.Add(fmt.Sprintf("lineitem-%d-id", i), "cannot delete an unsaved line")
			}
			continue
		}
		prefix := fmt.Sprintf("lineitem-%d-", i)
		line, ok := parseLine(edit.LineInput, prefix, fields, edit.ID == 0)
		if !ok {
			continue
		}
		line.ID = edit.ID
		line.InvoiceID = inv.ID
		parsed[i] = line
	}
	if err := fields.OrNil(); err != nil {
		return err
	}

	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxPort) error {
		for i, edit := range edits {
			switch {
			case edit.Delete:
				if err := tx.DeleteLine(ctx, inv.ID, edit.ID); err != nil {
					return err
				}
			case edit.ID == 0:
				line := parsed[i]
				if line.ItemID > 0 {
					snap, err := tx.GetItemSnapshot(ctx, line.ItemID)
					if err != nil {
						return err
					}
					line = LineFromItem(line.ItemID, snap, line.Quantity)
				}
				if _, err := tx.InsertLine(ctx, inv.ID, line); err != nil {
					return err
				}
			default:
				if err := tx.UpdateLine(ctx, parsed[i]); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// InlineEditResult echoes a successful single-field edit back to the caller.
type InlineEditResult struct {
	Status    string `json:"status"`
	Value     string `json:"value"`
	ElementID string `json:"element_id"`
}

// InlineEdit updates one named invoice field. Unknown fields and bad values
// come back as a per-field validation batch.
func (s *Service) InlineEdit(ctx context.Context, number, field, value string) (*InlineEditResult, error) {
	inv, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	fields := shared.FieldErrors{}
	var stored any = value
	switch field {
	case "invoice_date", "due_date":
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			fields.Add(field, "enter a valid date (YYYY-MM-DD)")
		} else {
			stored = t
		}
	case "status":
		if !ValidStatus(InvoiceStatus(value)) {
			fields.Add(field, "select a valid status")
		}
	case "status_notes":
		if len(value) > 128 {
			fields.Add(field, "ensure this value has at most 128 characters")
		}
	case "terms":
		t, err := decimal.NewFromString(value)
		if err != nil || !t.IsInteger() || t.Sign() <= 0 {
			fields.Add(field, "select valid terms")
		} else {
			stored = t.IntPart()
		}
	default:
		fields.Add(field, "this field cannot be edited inline")
	}
	if err := fields.OrNil(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateInvoiceField(ctx, inv.ID, field, stored); err != nil {
		return nil, err
	}
	return &InlineEditResult{Status: "success", Value: value, ElementID: field}, nil
}

// InvoicePage is one page of an entity's invoices.
type InvoicePage struct {
	Invoices   []Invoice
	Pagination shared.Pagination
}

func (s *Service) page(invoices []Invoice, total, page, perPage int) (*InvoicePage, error) {
	p := shared.NewPagination(page, perPage, total)
	// Page 1 of an empty listing renders empty; anything past the end is a
	// missing resource.
	if page > p.TotalPages && !(page == 1 && total == 0) {
		return nil, shared.ErrNotFound
	}
	return &InvoicePage{Invoices: invoices, Pagination: p}, nil
}

// CompanyInvoices lists one page of a company's invoices in insertion order.
func (s *Service) CompanyInvoices(ctx context.Context, companyID int64, page, perPage int) (*InvoicePage, error) {
	if _, err := s.repo.Company(ctx, companyID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	invoices, total, err := s.repo.ListByCompany(ctx, companyID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	return s.page(invoices, total, page, perPage)
}

// ClientInvoices lists one page of a client's invoices in insertion order.
func (s *Service) ClientInvoices(ctx context.Context, clientID int64, page, perPage int) (*InvoicePage, error) {
	if _, err := s.repo.Client(ctx, clientID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	invoices, total, err := s.repo.ListByClient(ctx, clientID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	return s.page(invoices, total, page, perPage)
}

// CompanyByID loads the company fields exposed on the overview endpoint.
func (s *Service) CompanyByID(ctx context.Context, id int64) (CompanyInfo, error) {
	return s.repo.Company(ctx, id)
}

// ClientByID loads the client fields exposed on the overview endpoint.
func (s *Service) ClientByID(ctx context.Context, id int64) (ClientInfo, error) {
	return s.repo.Client(ctx, id)
}

// ClientReceiptsToDate sums the tax-inclusive line totals ever billed to a
// client, across all companies and their tax rates.
func (s *Service) ClientReceiptsToDate(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	rows, err := s.repo.ClientReceiptRows(ctx, clientID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, row := range rows {
		line := LineItem{Price: row.Price, Quantity: row.Quantity, Taxable: row.Taxable}
		total = total.Add(line.Total(row.TaxRate))
	}
	return total, nil
}
