package collector

import (
	"context"
	"errors"
	"fmt"

	"StockFetcher/internal/model"
)

// ErrAllFailed is returned by FetchCombined when no symbol could be downloaded.
var ErrAllFailed = errors.New("all symbols failed")

// FetchCombined downloads every symbol over the same window into one dataset.
// A symbol that fails is recorded in the dataset's Failed map and leaves empty
// columns; the call itself fails only when nothing usable came back.
func FetchCombined(ctx context.Context, f Fetcher, symbols []string, r model.DateRange) (*model.CombinedDataset, error) {
	if len(symbols) == 0 {
		return nil, errors.New("no symbols requested")
	}
	ds := model.NewCombinedDataset(symbols)
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		series, err := f.FetchDaily(ctx, sym, r)
		if err != nil {
			ds.Failed[sym] = err
			continue
		}
		ds.Series[sym] = series
	}

	if len(ds.Failed) == len(symbols) {
		return nil, fmt.Errorf("%w: %d of %d, first: %s: %v",
			ErrAllFailed, len(ds.Failed), len(symbols), symbols[0], ds.Failed[symbols[0]])
	}
	if ds.Empty() {
		return nil, errors.New("no price data returned for any symbol")
	}
	return ds, nil
}
