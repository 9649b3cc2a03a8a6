package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"StockFetcher/internal/model"
)

// CombinedFileName is the file the multi-symbol dataset is written to.
const CombinedFileName = "all_stocks_combined.csv"

// Columns is the per-symbol column layout shared by both file shapes.
var Columns = []string{"Open", "High", "Low", "Close", "Adj Close", "Volume"}

const dateLayout = "2006-01-02"

// SeriesFileName returns the per-symbol file name, e.g. AAPL_data.csv.
func SeriesFileName(symbol string) string {
	return symbol + "_data.csv"
}

// CSVExporter writes price data as CSV files into Dir, overwriting existing files.
type CSVExporter struct {
	Dir string
}

// NewCSVExporter creates an exporter rooted at dir.
func NewCSVExporter(dir string) *CSVExporter {
	return &CSVExporter{Dir: dir}
}

// WriteSeries writes one header row followed by one row per bar and returns the file name.
func (e *CSVExporter) WriteSeries(s *model.PriceSeries) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(append([]string{"Date"}, Columns...)); err != nil {
		return "", err
	}
	for _, b := range s.Bars {
		if err := w.Write(append([]string{b.Date.Format(dateLayout)}, barFields(&b)...)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("encode %s: %w", s.Symbol, err)
	}

	name := SeriesFileName(s.Symbol)
	return name, e.write(name, buf.Bytes())
}

// WriteCombined writes the dataset with columns grouped by symbol under a
// three-row header (Ticker, Price, Date). Dates missing for a symbol leave
// its cells empty.
func (e *CSVExporter) WriteCombined(d *model.CombinedDataset) (string, error) {
	width := 1 + len(d.Symbols)*len(Columns)
	tickerRow := make([]string, 0, width)
	priceRow := make([]string, 0, width)
	dateRow := make([]string, width)
	tickerRow = append(tickerRow, "Ticker")
	priceRow = append(priceRow, "Price")
	dateRow[0] = "Date"

	bySymbol := make(map[string]map[string]*model.OHLCV, len(d.Symbols))
	for _, sym := range d.Symbols {
		for range Columns {
			tickerRow = append(tickerRow, sym)
		}
		priceRow = append(priceRow, Columns...)

		idx := make(map[string]*model.OHLCV)
		if s, ok := d.Series[sym]; ok {
			for i := range s.Bars {
				idx[s.Bars[i].Date.Format(dateLayout)] = &s.Bars[i]
			}
		}
		bySymbol[sym] = idx
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range [][]string{tickerRow, priceRow, dateRow} {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	blank := make([]string, len(Columns))
	for _, date := range d.Dates() {
		key := date.Format(dateLayout)
		row := make([]string, 0, width)
		row = append(row, key)
		for _, sym := range d.Symbols {
			if b, ok := bySymbol[sym][key]; ok {
				row = append(row, barFields(b)...)
			} else {
				row = append(row, blank...)
			}
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("encode combined: %w", err)
	}

	return CombinedFileName, e.write(CombinedFileName, buf.Bytes())
}

func (e *CSVExporter) write(name string, data []byte) error {
	if e.Dir != "" {
		if err := os.MkdirAll(e.Dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(filepath.Join(e.Dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func barFields(b *model.OHLCV) []string {
	return []string{
		formatPrice(b.Open),
		formatPrice(b.High),
		formatPrice(b.Low),
		formatPrice(b.Close),
		formatPrice(b.AdjClose),
		strconv.FormatInt(b.Volume, 10),
	}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
