package domain

import "github.com/shopspring/decimal"

// TaxationType is the caller-chosen mode governing which tax components are
// computed for a quotation.
type TaxationType string

const (
	TaxationNone TaxationType = "none"
	TaxationGST  TaxationType = "gst"
	TaxationPST  TaxationType = "pst"
	TaxationBoth TaxationType = "both"
	// TaxationLegacy marks records carrying only the flat pre-split
	// percentage/amount pair. Display-only: such records are never passed
	// through ComputeTax.
	TaxationLegacy TaxationType = "legacy"
)

// Computable reports whether the taxation type may be fed to ComputeTax.
func (t TaxationType) Computable() bool {
	switch t {
	case TaxationNone, TaxationGST, TaxationPST, TaxationBoth:
		return true
	}
	return false
}

// TaxBreakdown holds the derived monetary fields of a quotation.
// Invariants: CombinedTaxAmount = GSTAmount + PSTAmount and
// TotalAmount = subtotal + CombinedTaxAmount, exactly.
type TaxBreakdown struct {
	GSTAmount         decimal.Decimal
	PSTAmount         decimal.Decimal
	CombinedTaxAmount decimal.Decimal
	TotalAmount       decimal.Decimal
}

// ComputeTax derives the tax amounts and total for a subtotal under the given
// taxation selection. Each component is rounded to 2 decimal places at the
// point it is computed, never only at the total, so recomputing from the
// stored percentages reproduces the stored amounts bit-for-bit.
//
// Pure: safe to call redundantly for preview and for authoritative
// persistence; both paths must use this exact function.
func ComputeTax(subtotal decimal.Decimal, selection TaxationType, gstPct, pstPct decimal.Decimal) (TaxBreakdown, error) {
	if !selection.Computable() {
		return TaxBreakdown{}, ErrInvalidTaxSelection
	}

	gst := decimal.Zero
	pst := decimal.Zero
	hundred := decimal.NewFromInt(100)

	switch selection {
	case TaxationGST:
		gst = round2(subtotal.Mul(gstPct).Div(hundred))
	case TaxationPST:
		pst = round2(subtotal.Mul(pstPct).Div(hundred))
	case TaxationBoth:
		// Computed independently and summed; no cross-discounting.
		gst = round2(subtotal.Mul(gstPct).Div(hundred))
		pst = round2(subtotal.Mul(pstPct).Div(hundred))
	}

	combined := gst.Add(pst)
	return TaxBreakdown{
		GSTAmount:         gst,
		PSTAmount:         pst,
		CombinedTaxAmount: combined,
		TotalAmount:       round2(subtotal.Add(combined)),
	}, nil
}

// round2 rounds half to even at 2 decimal places. For any subtotal already
// expressed in cents the total rounding is a no-op, so
// total == subtotal + combined holds exactly.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}
