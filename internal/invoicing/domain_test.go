package invoicing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestExtendedPrice(t *testing.T) {
	cases := []struct {
		name     string
		price    string
		quantity string
		want     string
	}{
		{"whole units", "10.00", "3", "30.00"},
		{"fractional quantity", "50.00", "1.5", "75.00"},
		{"rounds half up", "9.995", "1", "10.00"},
		{"rounds down", "3.334", "1", "3.33"},
		{"zero quantity", "19.99", "0", "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtendedPrice(dec(tc.price), dec(tc.quantity))
			require.True(t, dec(tc.want).Equal(got), "got %s", got)
			// Idempotent under re-computation.
			require.True(t, got.Equal(ExtendedPrice(dec(tc.price), dec(tc.quantity))))
		})
	}
}

func TestLineTotalTaxOrder(t *testing.T) {
	// Tax applies to the rounded extended price, not to raw price*quantity.
	line := LineItem{Price: dec("9.995"), Quantity: dec("1"), Taxable: true}
	require.True(t, dec("10.00").Equal(line.ExtendedPrice()))
	require.True(t, dec("10.80").Equal(line.Total(dec("8.00"))))
}

func TestLineTotalNotBelowExtended(t *testing.T) {
	line := LineItem{Price: dec("12.34"), Quantity: dec("2"), Taxable: true}
	ext := line.ExtendedPrice()

	require.True(t, line.Total(dec("8.25")).GreaterThanOrEqual(ext))
	// Equality exactly when the rate is zero.
	require.True(t, line.Total(decimal.Zero).Equal(ext))
}

func TestLineTotalNonTaxable(t *testing.T) {
	line := LineItem{Price: dec("5.00"), Quantity: dec("2"), Taxable: false}
	require.True(t, dec("10.00").Equal(line.Total(dec("8.00"))))
}

func TestTaxMultiplier(t *testing.T) {
	require.True(t, dec("1.08").Equal(TaxMultiplier(dec("8.00"))))
	require.True(t, dec("1").Equal(TaxMultiplier(decimal.Zero)))
}

func TestComputeTotalsSingleTaxableLine(t *testing.T) {
	lines := []LineItem{
		{Price: dec("10.00"), Quantity: dec("3"), Taxable: true},
	}
	totals := ComputeTotals(lines, dec("8.00"))

	require.True(t, dec("30.00").Equal(totals.TaxableAmount))
	require.True(t, dec("2.40").Equal(totals.Tax))
	require.True(t, dec("30.00").Equal(totals.Subtotal))
	require.True(t, dec("32.40").Equal(totals.GrandTotal))
}

func TestComputeTotalsMixedLines(t *testing.T) {
	lines := []LineItem{
		{Price: dec("9.995"), Quantity: dec("1"), Taxable: true},
		{Price: dec("5.00"), Quantity: dec("2"), Taxable: false},
	}
	totals := ComputeTotals(lines, dec("8.00"))

	require.True(t, dec("10.00").Equal(totals.TaxableAmount))
	require.True(t, dec("0.80").Equal(totals.Tax))
	require.True(t, dec("20.00").Equal(totals.Subtotal))
	// 10.80 + 10.00; the grand total sums per-line totals on its own, it is
	// not derived from subtotal+tax.
	require.True(t, dec("20.80").Equal(totals.GrandTotal))
}

func TestComputeTotalsGrandTotalIndependent(t *testing.T) {
	// Two taxable lines whose per-line rounding makes the summed totals
	// drift from subtotal+tax by a cent.
	lines := []LineItem{
		{Price: dec("1.07"), Quantity: dec("1"), Taxable: true},
		{Price: dec("1.07"), Quantity: dec("1"), Taxable: true},
	}
	totals := ComputeTotals(lines, dec("7.00"))

	// Per line: 1.07 * 1.07 = 1.1449 -> 1.14; grand total 2.28.
	require.True(t, dec("2.28").Equal(totals.GrandTotal))
	// Aggregate tax: 2.14 * 0.07 = 0.1498 -> 0.15; subtotal+tax = 2.29.
	require.True(t, dec("0.15").Equal(totals.Tax))
	require.False(t, totals.GrandTotal.Equal(totals.Subtotal.Add(totals.Tax)))
}

func TestComputeTotalsEmptyInvoice(t *testing.T) {
	totals := ComputeTotals(nil, dec("8.00"))

	require.True(t, totals.TaxableAmount.IsZero())
	require.True(t, totals.Tax.IsZero())
	require.True(t, totals.Subtotal.IsZero())
	require.True(t, totals.GrandTotal.IsZero())
}

func TestComputeTotalsPrecision(t *testing.T) {
	lines := []LineItem{
		{Price: dec("3.33"), Quantity: dec("1.5"), Taxable: true},
		{Price: dec("0.10"), Quantity: dec("7"), Taxable: true},
	}
	totals := ComputeTotals(lines, dec("8.25"))

	for _, d := range []decimal.Decimal{totals.TaxableAmount, totals.Tax, totals.Subtotal, totals.GrandTotal} {
		require.GreaterOrEqual(t, d.Exponent(), int32(-2), "money must stay at 2 decimal places, got %s", d)
	}
}

func TestFormatNumber(t *testing.T) {
	require.Equal(t, "ACME00042", FormatNumber("ACME", 42))
	require.Equal(t, "ACME00001", FormatNumber("ACME", 1))
	require.Equal(t, "ACME99999", FormatNumber("ACME", 99999))
	// Width widens past five digits instead of truncating.
	require.Equal(t, "ACME100000", FormatNumber("ACME", 100000))
}

func TestLineFromItemSnapshot(t *testing.T) {
	cost := dec("4.00")
	snap := ItemSnapshot{
		Name:        "Widget",
		Description: "A widget",
		Cost:        &cost,
		Price:       dec("10.00"),
		Taxable:     true,
	}
	line := LineFromItem(7, snap, dec("3"))

	require.Equal(t, int64(7), line.ItemID)
	require.Equal(t, "Widget", line.Name)
	require.Equal(t, "A widget", line.Description)
	require.True(t, dec("10.00").Equal(line.Price))
	require.True(t, dec("3").Equal(line.Quantity))
	require.True(t, line.Taxable)
	require.NotNil(t, line.Cost)
	require.True(t, cost.Equal(*line.Cost))

	// The copy is one-time: mutating the snapshot afterwards does not
	// reach the line.
	snap.Price = dec("99.00")
	require.True(t, dec("10.00").Equal(line.Price))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []InvoiceStatus{StatusUnsent, StatusSent, StatusPartial, StatusPaid, StatusOther} {
		require.True(t, ValidStatus(s))
	}
	require.False(t, ValidStatus("draft"))
	require.False(t, ValidStatus(""))
}
