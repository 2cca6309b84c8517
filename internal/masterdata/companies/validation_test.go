package companies

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	mdshared "github.com/invoicer-app/invoicer/internal/masterdata/shared"
	"github.com/invoicer-app/invoicer/internal/shared"
)

func company(name, prefix, rate string) Company {
	c := Company{NumberingPrefix: prefix, TaxRate: decimal.RequireFromString(rate)}
	c.Name = name
	return c
}

func TestValidateCompany(t *testing.T) {
	var s Service

	require.NoError(t, s.validate(company("Acme", "ACME", "8.00")))
	require.NoError(t, s.validate(company("Acme", "A", "0")))

	cases := []struct {
		name    string
		company Company
		field   string
	}{
		{"missing name", company("", "ACME", "8.00"), "name"},
		{"missing prefix", company("Acme", "  ", "8.00"), "numbering_prefix"},
		{"prefix too long", company("Acme", "ABCDEFGHIJK", "8.00"), "numbering_prefix"},
		{"negative rate", company("Acme", "ACME", "-1"), "tax_rate"},
		{"rate above 100", company("Acme", "ACME", "101"), "tax_rate"},
		{"rate too precise", company("Acme", "ACME", "8.125"), "tax_rate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.validate(tc.company)
			var fields shared.FieldErrors
			require.ErrorAs(t, err, &fields)
			require.Contains(t, fields, tc.field)
		})
	}
}

func TestContactFullAddress(t *testing.T) {
	c := mdshared.Contact{Address: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62704"}
	require.Equal(t, "1 Main St, Springfield, IL 62704", c.FullAddress())
}
