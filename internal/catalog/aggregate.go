package catalog

import "github.com/shopspring/decimal"

// Aggregate is the derived rating summary stored on services and vendors.
type Aggregate struct {
	Average decimal.Decimal
	Count   int
}

// NewAggregate builds the aggregate for count ratings summing to total. The
// average is rounded half-up to two decimals and is zero for an empty set.
func NewAggregate(total, count int64) Aggregate {
	if count <= 0 {
		return Aggregate{Average: decimal.Zero, Count: 0}
	}
	avg := decimal.NewFromInt(total).Div(decimal.NewFromInt(count)).Round(2)
	return Aggregate{Average: avg, Count: int(count)}
}

type ratingTotals struct {
	Total int64
	Count int64
}
