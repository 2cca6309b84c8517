package companies

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/invoicer-app/invoicer/internal/shared"
)

func (s *Service) validate(c Company) error {
	fields := shared.FieldErrors{}
	if strings.TrimSpace(c.Name) == "" {
		fields.Add("name", "company name is required")
	}
	prefix := strings.TrimSpace(c.NumberingPrefix)
	if prefix == "" {
		fields.Add("numbering_prefix", "numbering prefix is required")
	} else if len(prefix) > 10 {
		fields.Add("numbering_prefix", "numbering prefix must be at most 10 characters")
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		fields.Add("tax_rate", "tax rate must be between 0 and 100")
	}
	if c.TaxRate.Exponent() < -2 {
		fields.Add("tax_rate", "tax rate supports at most 2 decimal places")
	}
	return fields.OrNil()
}
