package scoreline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/internal/logger"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/metrics"
)

// StrengthRepository persists the most recent strength table.
// Get returns ErrNoStrengths when nothing has been stored.
type StrengthRepository interface {
	Get(ctx context.Context) (*StrengthTable, error)
	Put(ctx context.Context, table *StrengthTable) error
}

// RecordSource supplies the historical matches a fit runs over.
type RecordSource interface {
	Records(ctx context.Context) ([]MatchRecord, error)
}

// RecordSourceFunc adapts a plain function to RecordSource.
type RecordSourceFunc func(ctx context.Context) ([]MatchRecord, error)

func (f RecordSourceFunc) Records(ctx context.Context) ([]MatchRecord, error) {
	return f(ctx)
}

// StrengthProvider hands out the current strength table, loading it from the
// repository or fitting it from the record source as needed. A refit is
// built completely before it replaces the published table, and concurrent
// callers share one in-flight fit.
type StrengthProvider struct {
	repo    StrengthRepository
	source  RecordSource
	group   singleflight.Group
	current atomic.Pointer[StrengthTable]
	now     func() time.Time
}

func NewStrengthProvider(repo StrengthRepository, source RecordSource) *StrengthProvider {
	return &StrengthProvider{repo: repo, source: source, now: time.Now}
}

// Current returns the last published table without any I/O, or nil before the first load.
func (p *StrengthProvider) Current() *StrengthTable {
	return p.current.Load()
}

// Strengths returns the stored table unless force is set or nothing is stored,
// in which case it fits a new one and offers it back to the repository.
func (p *StrengthProvider) Strengths(ctx context.Context, force bool) (*StrengthTable, error) {
	if !force {
		table, err := p.repo.Get(ctx)
		switch {
		case err == nil && table != nil:
			metrics.RepositoryHits.WithLabelValues("hit").Inc()
			p.current.Store(table)
			return table, nil
		case err == nil, errors.Is(err, ErrNoStrengths):
			metrics.RepositoryHits.WithLabelValues("miss").Inc()
		default:
			metrics.RepositoryHits.WithLabelValues("error").Inc()
			logger.Warn("strength repository read failed", err)
			if cur := p.current.Load(); cur != nil {
				return cur, nil
			}
		}
	}

	v, err, shared := p.group.Do("fit", func() (any, error) {
		return p.refit(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug("joined an in-flight strength fit")
	}
	return v.(*StrengthTable), nil
}

func (p *StrengthProvider) refit(ctx context.Context) (*StrengthTable, error) {
	started := time.Now()
	records, err := p.source.Records(ctx)
	if err != nil {
		metrics.FitFailures.Inc()
		return nil, fmt.Errorf("loading match records: %w", err)
	}
	if len(records) == 0 {
		logger.Warn("fitting strengths", ErrMissingHistoricalData)
	}

	table := Fit(records)
	table.FittedAt = p.now().UTC()

	if err := p.repo.Put(ctx, table); err != nil {
		logger.Error("failed to store strength table", err)
	}
	p.current.Store(table)
	metrics.ObserveFit(started, len(table.Teams))

	logger.Info(fmt.Sprintf("fitted %d teams over %d matches (mu_home %.3f, mu_away %.3f)",
		len(table.Teams), table.Matches, table.Means.MuHome, table.Means.MuAway))
	return table, nil
}
