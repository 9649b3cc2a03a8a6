package model

import (
	"sort"
	"time"
)

// OHLCV represents a single daily bar.
type OHLCV struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}

// PriceSeries holds the daily bars of one symbol, oldest first.
type PriceSeries struct {
	Symbol string
	Bars   []OHLCV
}

func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

func (s *PriceSeries) Empty() bool { return s.Len() == 0 }

// CombinedDataset holds the series of several symbols fetched as one group.
// Symbols that failed are kept in Failed and have no entry in Series.
type CombinedDataset struct {
	Symbols []string
	Series  map[string]*PriceSeries
	Failed  map[string]error
}

// NewCombinedDataset creates an empty dataset for the given symbols.
func NewCombinedDataset(symbols []string) *CombinedDataset {
	return &CombinedDataset{
		Symbols: append([]string(nil), symbols...),
		Series:  make(map[string]*PriceSeries, len(symbols)),
		Failed:  make(map[string]error),
	}
}

// Dates returns the sorted union of all bar dates in the dataset.
func (d *CombinedDataset) Dates() []time.Time {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, s := range d.Series {
		for _, b := range s.Bars {
			if _, ok := seen[b.Date]; ok {
				continue
			}
			seen[b.Date] = struct{}{}
			dates = append(dates, b.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Empty reports whether no symbol in the dataset has any bars.
func (d *CombinedDataset) Empty() bool {
	for _, s := range d.Series {
		if !s.Empty() {
			return false
		}
	}
	return true
}
