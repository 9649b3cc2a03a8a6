package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"StockFetcher/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bar(date string, open, closePrice float64, vol int64) model.OHLCV {
	d, _ := time.Parse("2006-01-02", date)
	return model.OHLCV{Date: d, Open: open, High: open + 1, Low: open - 1, Close: closePrice, AdjClose: closePrice - 0.5, Volume: vol}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteSeries(t *testing.T) {
	dir := t.TempDir()
	e := NewCSVExporter(dir)
	s := &model.PriceSeries{Symbol: "BRK-B", Bars: []model.OHLCV{
		bar("2025-01-02", 452.5, 453.25, 3000000),
		bar("2025-01-03", 453, 455.125, 2500000),
	}}

	name, err := e.WriteSeries(s)
	require.NoError(t, err)
	assert.Equal(t, "BRK-B_data.csv", name)

	rows := readCSV(t, filepath.Join(dir, name))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}, rows[0])
	assert.Equal(t, []string{"2025-01-02", "452.5", "453.5", "451.5", "453.25", "452.75", "3000000"}, rows[1])
	assert.Equal(t, "2025-01-03", rows[2][0])
}

func TestWriteSeries_OverwritesWithoutAppending(t *testing.T) {
	dir := t.TempDir()
	e := NewCSVExporter(dir)
	s := &model.PriceSeries{Symbol: "AAPL", Bars: []model.OHLCV{bar("2025-01-02", 1, 2, 3)}}

	_, err := e.WriteSeries(s)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, "AAPL_data.csv"))
	require.NoError(t, err)

	_, err = e.WriteSeries(s)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "AAPL_data.csv"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, strings.Count(string(second), "\n"))
}

func TestWriteSeries_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	_, err := NewCSVExporter(dir).WriteSeries(&model.PriceSeries{Symbol: "V", Bars: []model.OHLCV{bar("2025-01-02", 1, 2, 3)}})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "V_data.csv"))
}

func TestWriteCombined(t *testing.T) {
	dir := t.TempDir()
	d := model.NewCombinedDataset([]string{"AAPL", "MSFT"})
	d.Series["AAPL"] = &model.PriceSeries{Symbol: "AAPL", Bars: []model.OHLCV{
		bar("2025-01-02", 10, 11, 100),
		bar("2025-01-03", 12, 13, 200),
	}}
	d.Series["MSFT"] = &model.PriceSeries{Symbol: "MSFT", Bars: []model.OHLCV{
		bar("2025-01-03", 20, 21, 300),
	}}

	name, err := NewCSVExporter(dir).WriteCombined(d)
	require.NoError(t, err)
	assert.Equal(t, CombinedFileName, name)

	rows := readCSV(t, filepath.Join(dir, CombinedFileName))
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Ticker", "AAPL", "AAPL", "AAPL", "AAPL", "AAPL", "AAPL", "MSFT", "MSFT", "MSFT", "MSFT", "MSFT", "MSFT"}, rows[0])
	assert.Equal(t, []string{"Price", "Open", "High", "Low", "Close", "Adj Close", "Volume", "Open", "High", "Low", "Close", "Adj Close", "Volume"}, rows[1])
	assert.Equal(t, "Date", rows[2][0])
	assert.Len(t, rows[2], 13)
	for _, cell := range rows[2][1:] {
		assert.Empty(t, cell)
	}

	assert.Equal(t, []string{"2025-01-02", "10", "11", "9", "11", "10.5", "100", "", "", "", "", "", ""}, rows[3])
	assert.Equal(t, []string{"2025-01-03", "12", "13", "11", "13", "12.5", "200", "20", "21", "19", "21", "20.5", "300"}, rows[4])
}

func TestWriteCombined_FailedSymbolLeavesEmptyColumns(t *testing.T) {
	dir := t.TempDir()
	d := model.NewCombinedDataset([]string{"AAPL", "XOM"})
	d.Series["AAPL"] = &model.PriceSeries{Symbol: "AAPL", Bars: []model.OHLCV{bar("2025-01-02", 10, 11, 100)}}
	d.Failed["XOM"] = assert.AnError

	_, err := NewCSVExporter(dir).WriteCombined(d)
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(dir, CombinedFileName))
	require.Len(t, rows, 4)
	assert.Equal(t, "XOM", rows[0][12])
	assert.Equal(t, []string{"", "", "", "", "", ""}, rows[3][7:])
}
