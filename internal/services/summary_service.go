package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"spendtrack/internal/core"
)

// MonthTotal is one bar of the historical summary chart.
type MonthTotal struct {
	Month string
	Total core.Money
}

// SummaryService computes per-month spend totals over an inclusive month
// range for the historical bar chart.
type SummaryService struct {
	store TotalsStore
}

func NewSummaryService(store TotalsStore) *SummaryService {
	return &SummaryService{store: store}
}

// summaryConcurrency bounds the parallel month queries.
const summaryConcurrency = 4

// MonthlyTotals returns one total per month key from start to end
// inclusive, in chronological order. An inverted range yields an empty
// result, not an error. Months are queried concurrently; the first store
// error cancels the rest.
func (s *SummaryService) MonthlyTotals(ctx context.Context, uid, start, end string) ([]MonthTotal, error) {
	months := core.MonthRange(start, end)
	if len(months) == 0 {
		return nil, nil
	}

	totals := make([]MonthTotal, len(months))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryConcurrency)
	for i, month := range months {
		g.Go(func() error {
			total, err := s.store.MonthTotal(gctx, uid, month)
			if err != nil {
				return fmt.Errorf("total for %s: %w", month, err)
			}
			totals[i] = MonthTotal{Month: month, Total: total}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return totals, nil
}
