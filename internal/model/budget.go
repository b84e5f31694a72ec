// Package model defines the budget data types shared across pilotbudget.
package model

// LineItem is one named cost component, in the smallest currency unit.
type LineItem struct {
	Name   string
	Amount int64
}

// LineItemSet is an ordered set of line items. Order is kept for display only.
type LineItemSet []LineItem

// Clone returns an independent copy of the set.
func (s LineItemSet) Clone() LineItemSet {
	if s == nil {
		return nil
	}
	out := make(LineItemSet, len(s))
	copy(out, s)
	return out
}

// BudgetResult holds the aggregated figures for one line item set.
// It is returned by value and never mutated after construction.
type BudgetResult struct {
	Items             LineItemSet
	Subtotal          int64
	ContingencyRate   float64
	ContingencyAmount int64
	Total             int64

	// Only set when an exchange rate was supplied.
	ExchangeRate      *float64
	ConvertedEstimate *float64
}

// HasEstimate reports whether a converted estimate was computed.
func (r BudgetResult) HasEstimate() bool {
	return r.ConvertedEstimate != nil
}

// Expected holds externally maintained figures a result is checked against.
// Nil fields are not compared.
type Expected struct {
	Subtotal          *int64   `toml:"subtotal,omitempty"`
	ContingencyAmount *int64   `toml:"contingency,omitempty"`
	Total             *int64   `toml:"total,omitempty"`
	ConvertedMin      *float64 `toml:"converted_min,omitempty"`
	ConvertedMax      *float64 `toml:"converted_max,omitempty"`
}

// IsZero reports whether no expectations are set.
func (e Expected) IsZero() bool {
	return e.Subtotal == nil && e.ContingencyAmount == nil && e.Total == nil &&
		e.ConvertedMin == nil && e.ConvertedMax == nil
}

// Mismatch describes one field whose computed value differs from the expected one.
type Mismatch struct {
	Field    string
	Expected string
	Actual   string
}

// CeilingCheck compares a total against a maximum allowed amount.
type CeilingCheck struct {
	Ceiling  int64
	Total    int64
	Headroom int64 // negative when exceeded
	Exceeded bool
}

// ValidationReport lists every inconsistency found for a result.
type ValidationReport struct {
	Mismatches []Mismatch
	Ceiling    *CeilingCheck
}

// OK reports whether the result matched all expectations and stayed under the ceiling.
func (r ValidationReport) OK() bool {
	if len(r.Mismatches) > 0 {
		return false
	}
	return r.Ceiling == nil || !r.Ceiling.Exceeded
}
