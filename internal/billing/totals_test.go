package billing

import (
	"testing"

	"github.com/diewo77/invoicer/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(q, p string) models.InvoiceItem {
	return models.InvoiceItem{Quantity: d(q), UnitPrice: d(p)}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, got.Equal(d(want)), "%s = %s, want %s", field, got, want)
}

func TestComputeTotals_Empty(t *testing.T) {
	got := ComputeTotals([]models.InvoiceItem{}, d("0.20"))
	assertDecimal(t, "0", got.Subtotal, "Subtotal")
	assertDecimal(t, "0", got.Tax, "Tax")
	assertDecimal(t, "0", got.Total, "Total")

	got = ComputeTotals[models.InvoiceItem](nil, decimal.Zero)
	assert.True(t, got.Total.IsZero())
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.InvoiceItem
		rate     string
		subtotal string
		tax      string
		total    string
	}{
		{
			name:     "zero rate",
			items:    []models.InvoiceItem{item("2", "3.50"), item("1", "10.00")},
			rate:     "0.00",
			subtotal: "17.00", tax: "0.00", total: "17.00",
		},
		{
			name:     "with rate",
			items:    []models.InvoiceItem{item("2", "3.50"), item("1", "10.00")},
			rate:     "0.08",
			subtotal: "17.00", tax: "1.36", total: "18.36",
		},
		{
			name:     "no float drift",
			items:    []models.InvoiceItem{item("1", "0.10"), item("1", "0.20")},
			rate:     "0",
			subtotal: "0.30", tax: "0", total: "0.30",
		},
		{
			name:     "fractional quantity",
			items:    []models.InvoiceItem{item("1.5", "40.00")},
			rate:     "0.10",
			subtotal: "60.00", tax: "6.00", total: "66.00",
		},
		{
			name:     "credit line",
			items:    []models.InvoiceItem{item("1", "100"), item("1", "-25.50")},
			rate:     "0",
			subtotal: "74.50", tax: "0", total: "74.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items, d(tt.rate))
			assertDecimal(t, tt.subtotal, got.Subtotal, "Subtotal")
			assertDecimal(t, tt.tax, got.Tax, "Tax")
			assertDecimal(t, tt.total, got.Total, "Total")
		})
	}
}

func TestComputeTotals_Idempotent(t *testing.T) {
	items := []models.InvoiceItem{item("3", "19.99"), item("0.5", "8")}
	first := ComputeTotals(items, d("0.0725"))
	second := ComputeTotals(items, d("0.0725"))
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.Total.Equal(second.Total))
}

func TestNewInvoiceView(t *testing.T) {
	inv := &models.Invoice{ID: 7, Items: []models.InvoiceItem{item("2", "3.50"), item("1", "10.00")}}
	v := NewInvoiceView(inv, decimal.Zero)
	assert.Same(t, inv, v.Invoice)
	assertDecimal(t, "17.00", v.Subtotal, "Subtotal")
	assertDecimal(t, "0", v.Tax, "Tax")
	assertDecimal(t, "17.00", v.Total, "Total")
}
