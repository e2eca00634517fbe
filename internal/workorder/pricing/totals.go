// Package pricing computes work order totals from free-text line items.
//
// The arithmetic deliberately mirrors how totals have always been produced
// for stored work orders: float64 products, a 2 decimal rounding at each
// stage (subtotal, tax, total) and a fixed 13% HST/GST rate. Stored records
// carry these exact strings, so any change here changes what technicians see
// next to historical orders.
package pricing

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// TaxRate is the HST/GST rate applied to every work order subtotal.
const TaxRate = 0.13

var half = decimal.RequireFromString("0.5")

// LineItem is one part row of a work order form. Prices and quantities are
// kept as typed by the technician.
type LineItem struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  string `json:"quantity"`
}

// Price returns the parsed unit price (0 when unparseable).
func (i LineItem) Price() float64 {
	return ParsePrice(orZero(i.UnitPrice))
}

// Qty returns the parsed quantity (0 when unparseable).
func (i LineItem) Qty() float64 {
	return ParseQuantity(orZero(i.Quantity))
}

// FormattedLineTotal is price * quantity rounded to cents, as part rows
// store it.
func (i LineItem) FormattedLineTotal() string {
	return FormatFloat(i.Price() * i.Qty())
}

// OrderTotals are derived from the current line items and never edited
// directly.
type OrderTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`

	// stages that rounded to zero from below and render as "-0.00"
	negZero [3]bool
}

// Formatted renders the three stages as stored on a work order.
func (t OrderTotals) Formatted() (subtotal, tax, total string) {
	return formatSigned(t.Subtotal, t.negZero[0]),
		formatSigned(t.Tax, t.negZero[1]),
		formatSigned(t.Total, t.negZero[2])
}

// ComputeTotals sums price * quantity over items and applies TaxRate.
// Malformed prices or quantities count as zero; it never fails.
func ComputeTotals(items []LineItem) OrderTotals {
	var sum float64
	for _, it := range items {
		sum += it.Price() * it.Qty()
	}
	return fromSubtotal(sum)
}

// ComputeTotalsFromLineTotals sums already rounded line totals (the
// total_price strings of a stored work order) before applying TaxRate. This is
// how an edited work order has its totals recomputed.
func ComputeTotalsFromLineTotals(lineTotals []string) OrderTotals {
	var sum float64
	for _, lt := range lineTotals {
		sum += ParsePrice(orZero(lt))
	}
	return fromSubtotal(sum)
}

func fromSubtotal(sum float64) OrderTotals {
	subtotal := Round2(sum)
	sub := subtotal.InexactFloat64()
	taxRaw := sub * TaxRate
	tax := Round2(taxRaw)
	totalRaw := sub + tax.InexactFloat64()
	total := Round2(totalRaw)
	return OrderTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
		negZero:  [3]bool{isNegZero(sum, subtotal), isNegZero(taxRaw, tax), isNegZero(totalRaw, total)},
	}
}

// Round2 rounds the exact binary value of |f| to 2 decimal places, ties going
// up, and puts the sign back. 1.005 is stored as 1.00499999... and rounds to
// 1.00, while 0.125 is exact and rounds to 0.13 (and -0.125 to -0.13).
func Round2(f float64) decimal.Decimal {
	exact := new(big.Float).SetFloat64(math.Abs(f)).Text('f', 1100)
	d, err := decimal.NewFromString(exact)
	if err != nil {
		// Only reachable for non-finite input, which the parsers never produce.
		return decimal.Zero
	}
	r := d.Shift(2).Add(half).Floor().Shift(-2)
	if f < 0 {
		return r.Neg()
	}
	return r
}

func isNegZero(raw float64, rounded decimal.Decimal) bool {
	return raw < 0 && rounded.IsZero()
}

func formatSigned(d decimal.Decimal, negZero bool) string {
	if negZero {
		return "-" + Format(d)
	}
	return Format(d)
}

// Format renders d with exactly two decimals, as stored in work orders.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatFloat rounds f like Round2 and renders it with two decimals. A
// negative f that rounds to zero renders as "-0.00".
func FormatFloat(f float64) string {
	r := Round2(f)
	return formatSigned(r, isNegZero(f, r))
}

// ParseAmount reads a stored 2 decimal amount back, 0 when malformed.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Round2(ParsePrice(s))
	}
	return d
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// String implements fmt.Stringer for log lines.
func (t OrderTotals) String() string {
	subtotal, tax, total := t.Formatted()
	return "subtotal=" + subtotal + " tax=" + tax + " total=" + total
}
