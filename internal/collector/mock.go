package collector

import (
	"context"
	"time"

	"StockFetcher/internal/model"
)

// MockCall records one FetchDaily invocation.
type MockCall struct {
	Symbol string
	Range  model.DateRange
}

// MockFetcher returns controllable fixed data for development and testing.
// Errors take precedence over Bars; a symbol in neither map gets generated
// weekday bars around Price, or an empty series when Price is zero.
type MockFetcher struct {
	Price  float64
	Bars   map[string][]model.OHLCV
	Errors map[string]error
	Calls  []MockCall
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDaily(_ context.Context, symbol string, r model.DateRange) (*model.PriceSeries, error) {
	m.Calls = append(m.Calls, MockCall{Symbol: symbol, Range: r})
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return &model.PriceSeries{Symbol: symbol, Bars: bars}, nil
	}
	if m.Price == 0 {
		return &model.PriceSeries{Symbol: symbol}, nil
	}
	return &model.PriceSeries{Symbol: symbol, Bars: generateMockBars(m.Price, r)}, nil
}

// CallsFor returns the recorded calls for symbol.
func (m *MockFetcher) CallsFor(symbol string) []MockCall {
	var out []MockCall
	for _, c := range m.Calls {
		if c.Symbol == symbol {
			out = append(out, c)
		}
	}
	return out
}

func generateMockBars(basePrice float64, r model.DateRange) []model.OHLCV {
	y, mo, d := r.Start.UTC().Date()
	day := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	var bars []model.OHLCV
	for !day.After(r.End) {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			p := basePrice * (1 + float64(len(bars)%20-10)*0.001)
			bars = append(bars, model.OHLCV{
				Date:     day,
				Open:     p * 0.999,
				High:     p * 1.005,
				Low:      p * 0.995,
				Close:    p,
				AdjClose: p,
				Volume:   1000000,
			})
		}
		day = day.AddDate(0, 0, 1)
	}
	return bars
}
