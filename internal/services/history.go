package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"bilancio/internal/core"
	applog "bilancio/internal/log"
)

const defaultHistoryParallelism = 4

// HistoryQuery derives trailing monthly totals from the ledgers.
type HistoryQuery struct {
	ledgers     *LedgerService
	parallelism int
}

func NewHistoryQuery(ledgers *LedgerService) *HistoryQuery {
	return &HistoryQuery{ledgers: ledgers, parallelism: defaultHistoryParallelism}
}

// LastNMonths returns n totals, oldest first, ending with anchor.
func (q *HistoryQuery) LastNMonths(ctx context.Context, sess Session, anchor core.YearMonth, n int) ([]core.MonthTotal, error) {
	if n <= 0 {
		return []core.MonthTotal{}, nil
	}

	out := make([]core.MonthTotal, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(q.parallelism)

	for i := 0; i < n; i++ {
		ym := anchor.AddMonths(i - (n - 1))
		g.Go(func() error {
			ledger, err := q.ledgers.Load(gctx, sess, ym)
			if err != nil {
				return fmt.Errorf("history %s: %w", ym, err)
			}
			out[i] = core.MonthTotal{
				Month: ym,
				Label: ym.ShortLabel(),
				Total: ledger.TotalSpent(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	applog.For(ctx, applog.ComponentHistory).DebugContext(ctx, "History computed",
		applog.FieldYearMonth, anchor.String(),
		"months", n)
	return out, nil
}
