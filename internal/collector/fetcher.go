package collector

import (
	"context"

	"StockFetcher/internal/model"
)

// Fetcher defines the interface for fetching daily price history.
// An empty series with a nil error means the provider had no rows for the window.
type Fetcher interface {
	FetchDaily(ctx context.Context, symbol string, r model.DateRange) (*model.PriceSeries, error)
	Name() string
}
