// Package invoicing holds the invoice financial and numbering engine:
// line-item pricing, invoice aggregation, and company-scoped invoice
// numbers, plus the persistence-facing service built on top of them.
package invoicing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus enumerates invoice lifecycle states.
type InvoiceStatus string

const (
	StatusUnsent  InvoiceStatus = "unsent"
	StatusSent    InvoiceStatus = "sent"
	StatusPartial InvoiceStatus = "partial"
	StatusPaid    InvoiceStatus = "paid"
	StatusOther   InvoiceStatus = "other"
)

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s InvoiceStatus) bool {
	switch s {
	case StatusUnsent, StatusSent, StatusPartial, StatusPaid, StatusOther:
		return true
	}
	return false
}

// Invoice model. Number stays empty only between the first insert and the
// numbering write; once assigned it never changes.
type Invoice struct {
	ID          int64
	Number      string
	CompanyID   int64
	ClientID    int64
	TermsID     int64
	InvoiceDate time.Time
	DueDate     time.Time
	Status      InvoiceStatus
	StatusNotes string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LineItem model. Owned by exactly one invoice; ItemID is a weak reference
// used only to snapshot catalog fields at creation.
type LineItem struct {
	ID          int64
	InvoiceID   int64
	ItemID      int64
	Name        string
	Description string
	Cost        *decimal.Decimal
	Price       decimal.Decimal
	Quantity    decimal.Decimal
	Taxable     bool
	Position    int
	CreatedAt   time.Time
}

// ItemSnapshot carries the catalog fields copied onto a line item.
type ItemSnapshot struct {
	Name        string
	Description string
	Cost        *decimal.Decimal
	Price       decimal.Decimal
	Taxable     bool
}

// Totals aggregates an invoice's reported figures.
type Totals struct {
	TaxableAmount decimal.Decimal
	Tax           decimal.Decimal
	Subtotal      decimal.Decimal
	GrandTotal    decimal.Decimal
}

// Monetary rounding is half away from zero, which for the non-negative
// amounts in this domain is round-half-up (9.995 rounds to 10.00). Every
// reported figure is quantized to two decimal places at the point it is
// produced; intermediate values keep full precision.
const moneyPlaces = 2

// TaxMultiplier converts a percentage rate to the factor applied to a
// taxable line's extended price: 1 + rate/100.
func TaxMultiplier(rate decimal.Decimal) decimal.Decimal {
	return rate.Div(decimal.NewFromInt(100)).Add(decimal.NewFromInt(1))
}

// ExtendedPrice is unit price times quantity, rounded to two places.
func ExtendedPrice(price, quantity decimal.Decimal) decimal.Decimal {
	return price.Mul(quantity).Round(moneyPlaces)
}

// ExtendedPrice returns the line's extended price.
func (l LineItem) ExtendedPrice() decimal.Decimal {
	return ExtendedPrice(l.Price, l.Quantity)
}

// Total returns the line's tax-inclusive total under the given company tax
// rate. Tax is applied to the already-rounded extended price, then the
// result is rounded again; the extend, round, tax, round order is load
// bearing for compatibility with historical invoices.
func (l LineItem) Total(taxRate decimal.Decimal) decimal.Decimal {
	ext := l.ExtendedPrice()
	if !l.Taxable {
		return ext
	}
	return ext.Mul(TaxMultiplier(taxRate)).Round(moneyPlaces)
}

// ComputeTotals aggregates lines into the invoice's reported figures.
// Subtotal and GrandTotal sum per-line rounded values independently, so
// GrandTotal is not necessarily Subtotal+Tax; that discrepancy is a
// property of the algorithm and must not be "fixed".
func ComputeTotals(lines []LineItem, taxRate decimal.Decimal) Totals {
	taxable := decimal.Zero
	subtotal := decimal.Zero
	grand := decimal.Zero
	for _, l := range lines {
		ext := l.ExtendedPrice()
		subtotal = subtotal.Add(ext)
		if l.Taxable {
			taxable = taxable.Add(ext)
		}
		grand = grand.Add(l.Total(taxRate))
	}
	tax := taxable.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(moneyPlaces)
	return Totals{
		TaxableAmount: taxable,
		Tax:           tax,
		Subtotal:      subtotal,
		GrandTotal:    grand,
	}
}

// FormatNumber builds the human-facing invoice number from a company's
// numbering prefix and the invoice's durable identifier. The identifier is
// zero padded to five digits and widens naturally beyond that (id 100000
// yields PREFIX100000); significant digits are never truncated.
func FormatNumber(prefix string, id int64) string {
	return fmt.Sprintf("%s%05d", prefix, id)
}

// LineFromItem builds a line item from a catalog snapshot. The copy is
// taken once, here; later edits to the catalog item do not reach lines
// already created from it.
func LineFromItem(itemID int64, snap ItemSnapshot, quantity decimal.Decimal) LineItem {
	return LineItem{
		ItemID:      itemID,
		Name:        snap.Name,
		Description: snap.Description,
		Cost:        snap.Cost,
		Price:       snap.Price,
		Quantity:    quantity,
		Taxable:     snap.Taxable,
	}
}
