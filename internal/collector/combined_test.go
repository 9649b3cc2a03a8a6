package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockFetcher/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bar(date string, price float64) model.OHLCV {
	d, _ := time.Parse("2006-01-02", date)
	return model.OHLCV{Date: d, Open: price, High: price, Low: price, Close: price, AdjClose: price, Volume: 100}
}

func TestFetchCombined_AllSucceed(t *testing.T) {
	m := &MockFetcher{Bars: map[string][]model.OHLCV{
		"AAPL": {bar("2025-01-02", 1)},
		"MSFT": {bar("2025-01-02", 2), bar("2025-01-03", 3)},
	}}

	ds, err := FetchCombined(context.Background(), m, []string{"AAPL", "MSFT"}, testRange)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, ds.Symbols)
	assert.Empty(t, ds.Failed)
	assert.Equal(t, 2, ds.Series["MSFT"].Len())

	require.Len(t, m.Calls, 2)
	for _, c := range m.Calls {
		assert.Equal(t, testRange, c.Range)
	}
}

func TestFetchCombined_PartialFailureKeepsOthers(t *testing.T) {
	boom := errors.New("boom")
	m := &MockFetcher{
		Bars:   map[string][]model.OHLCV{"AAPL": {bar("2025-01-02", 1)}},
		Errors: map[string]error{"MSFT": boom},
	}

	ds, err := FetchCombined(context.Background(), m, []string{"AAPL", "MSFT"}, testRange)
	require.NoError(t, err)
	assert.ErrorIs(t, ds.Failed["MSFT"], boom)
	assert.NotContains(t, ds.Series, "MSFT")
	assert.Equal(t, 1, ds.Series["AAPL"].Len())
}

func TestFetchCombined_AllFail(t *testing.T) {
	m := &MockFetcher{Errors: map[string]error{
		"AAPL": errors.New("down"),
		"MSFT": errors.New("down"),
	}}

	_, err := FetchCombined(context.Background(), m, []string{"AAPL", "MSFT"}, testRange)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllFailed)
}

func TestFetchCombined_NoRows(t *testing.T) {
	m := &MockFetcher{}

	_, err := FetchCombined(context.Background(), m, []string{"AAPL"}, testRange)
	assert.Error(t, err)
}

func TestFetchCombined_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &MockFetcher{Price: 100}
	_, err := FetchCombined(ctx, m, []string{"AAPL"}, testRange)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.Calls)
}

func TestMockFetcher_GeneratesWeekdayBars(t *testing.T) {
	r := model.DateRange{
		Start: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), // Monday
		End:   time.Date(2025, 1, 12, 9, 0, 0, 0, time.UTC), // Sunday
	}
	series, err := (&MockFetcher{Price: 100}).FetchDaily(context.Background(), "AAPL", r)
	require.NoError(t, err)
	assert.Equal(t, 5, series.Len())
	for _, b := range series.Bars {
		assert.NotEqual(t, time.Saturday, b.Date.Weekday())
		assert.NotEqual(t, time.Sunday, b.Date.Weekday())
	}
}
