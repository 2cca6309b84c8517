package items

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a catalog master record. Line items created from it copy its
// fields once and stay decoupled afterward.
type Item struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	Taxable     bool             `json:"taxable"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
