package companies

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invoicer-app/invoicer/internal/masterdata/shared"
)

// Company issues invoices. NumberingPrefix is the short unique token
// prepended to zero-padded invoice identifiers.
type Company struct {
	ID int64 `json:"id"`
	shared.Contact
	Website         string          `json:"website"`
	BillingEmail    string          `json:"billing_email"`
	NumberingPrefix string          `json:"numbering_prefix"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
