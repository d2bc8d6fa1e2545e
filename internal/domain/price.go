package domain

import "time"

type PricePoint struct {
	Date  time.Time
	Price float64
}

// ResolvedAsset is what the symbol resolver produces: the uppercase
// ticker, a display name, and the upstream provider's id for the coin.
type ResolvedAsset struct {
	Symbol string
	Name   string
	CoinID string
}

type History struct {
	Symbol             string
	Quote              string
	Range              DateRange
	Source             string
	Prices             []PricePoint
	FilledFromUpstream bool
}
