package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"StockFetcher/internal/collector"
	"StockFetcher/internal/exporter"
	"StockFetcher/internal/model"
	"StockFetcher/internal/recorder"

	"go.uber.org/zap"
)

// Runner downloads the configured tickers and writes them as CSV files.
type Runner struct {
	Fetcher      collector.Fetcher
	Exporter     *exporter.CSVExporter
	Recorder     recorder.Recorder
	Log          *zap.Logger
	Tickers      []string
	LookbackDays int
	Now          func() time.Time
}

// New creates a Runner. The ticker list is copied.
func New(f collector.Fetcher, exp *exporter.CSVExporter, rec recorder.Recorder, log *zap.Logger, tickers []string, lookbackDays int) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		Fetcher:      f,
		Exporter:     exp,
		Recorder:     rec,
		Log:          log,
		Tickers:      append([]string(nil), tickers...),
		LookbackDays: lookbackDays,
		Now:          time.Now,
	}
}

// Summary describes what one run produced.
type Summary struct {
	Range         model.DateRange
	CombinedSaved bool
	CombinedErr   error
	Saved         []string // files written for individual tickers, in list order
	Empty         []string
	Failed        map[string]error
	Interrupted   bool
	outcomes      []recorder.Outcome
}

// Files returns every file the run wrote, combined file first.
func (s *Summary) Files() []string {
	var files []string
	if s.CombinedSaved {
		files = append(files, exporter.CombinedFileName)
	}
	return append(files, s.Saved...)
}

// Run performs one full download pass. Every request is independent: a
// failure is logged and the run moves on. Run never returns an error.
func (r *Runner) Run(ctx context.Context) *Summary {
	started := r.Now()
	sum := &Summary{
		Range:  model.NewDateRange(started, r.LookbackDays),
		Failed: make(map[string]error),
	}

	r.Log.Info(fmt.Sprintf("Downloading stock data from %s", sum.Range),
		zap.String("source", r.Fetcher.Name()), zap.Int("tickers", len(r.Tickers)))

	r.runCombined(ctx, sum)
	r.runIndividual(ctx, sum)

	r.Log.Info("Download complete! CSV files created in "+r.outputDir(),
		zap.Bool("combined", sum.CombinedSaved),
		zap.Int("saved", len(sum.Saved)),
		zap.Int("empty", len(sum.Empty)),
		zap.Int("failed", len(sum.Failed)),
	)
	r.Log.Info("CSV files include: Date, " + strings.Join(exporter.Columns, ", "))

	if err := r.Recorder.RecordRun(&recorder.RunRecord{
		StartedAt:  started,
		FinishedAt: r.Now(),
		Range:      sum.Range,
		Outcomes:   sum.outcomes,
	}); err != nil {
		r.Log.Warn("record run failed", zap.Error(err))
	}
	return sum
}

func (r *Runner) runCombined(ctx context.Context, sum *Summary) {
	r.Log.Info("Downloading combined data...")

	ds, err := collector.FetchCombined(ctx, r.Fetcher, r.Tickers, sum.Range)
	var file string
	if err == nil {
		for _, sym := range ds.Symbols {
			if ferr, ok := ds.Failed[sym]; ok {
				r.Log.Warn(fmt.Sprintf("combined data missing %s: %v", sym, ferr), zap.String("ticker", sym))
			}
		}
		file, err = r.Exporter.WriteCombined(ds)
	}
	if err != nil {
		sum.CombinedErr = err
		r.Log.Error(fmt.Sprintf("✗ Error downloading combined data: %v", err))
		sum.outcomes = append(sum.outcomes, recorder.Outcome{
			Target: recorder.CombinedTarget, Status: recorder.StatusFailed, Error: err.Error(),
		})
		return
	}

	sum.CombinedSaved = true
	r.Log.Info("✓ Saved: "+file, zap.Int("rows", len(ds.Dates())))
	sum.outcomes = append(sum.outcomes, recorder.Outcome{
		Target: recorder.CombinedTarget, Status: recorder.StatusSaved, Rows: len(ds.Dates()), File: file,
	})
}

func (r *Runner) runIndividual(ctx context.Context, sum *Summary) {
	r.Log.Info("Downloading individual stock files...")

	for _, ticker := range r.Tickers {
		if ctx.Err() != nil {
			sum.Interrupted = true
			r.Log.Warn("run interrupted, remaining tickers skipped", zap.String("next", ticker))
			return
		}

		out := r.fetchOne(ctx, ticker, sum)
		sum.outcomes = append(sum.outcomes, out)
		switch out.Status {
		case recorder.StatusSaved:
			sum.Saved = append(sum.Saved, out.File)
			r.Log.Info(fmt.Sprintf("✓ Saved: %s (%d rows)", out.File, out.Rows), zap.String("ticker", ticker))
		case recorder.StatusEmpty:
			sum.Empty = append(sum.Empty, ticker)
			r.Log.Warn("✗ No data available for "+ticker, zap.String("ticker", ticker))
		default:
			r.Log.Error(fmt.Sprintf("✗ Error downloading %s: %s", ticker, out.Error), zap.String("ticker", ticker))
		}
	}
}

func (r *Runner) fetchOne(ctx context.Context, ticker string, sum *Summary) recorder.Outcome {
	out := recorder.Outcome{Target: ticker}

	series, err := r.Fetcher.FetchDaily(ctx, ticker, sum.Range)
	if err == nil && !series.Empty() {
		out.File, err = r.Exporter.WriteSeries(series)
	}
	switch {
	case err != nil:
		sum.Failed[ticker] = err
		out.Status = recorder.StatusFailed
		out.Error = err.Error()
		out.File = ""
	case series.Empty():
		out.Status = recorder.StatusEmpty
	default:
		out.Status = recorder.StatusSaved
		out.Rows = series.Len()
	}
	return out
}

func (r *Runner) outputDir() string {
	if r.Exporter.Dir == "" {
		return "."
	}
	return r.Exporter.Dir
}
