package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/rgehrsitz/gbrtax/internal/reserve"
	"golang.org/x/sync/errgroup"
)

// CompareEngine runs several reserve strategies over the same scenario
type CompareEngine struct {
	Reserve *reserve.Engine
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(engine *reserve.Engine) *CompareEngine {
	return &CompareEngine{Reserve: engine}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseStrategy string   // defaults to the first strategy
	Strategies   []string // defaults to all strategies
}

// Compare computes every requested strategy concurrently. Results keep the
// order of options.Strategies.
func (ce *CompareEngine) Compare(ctx context.Context, config *domain.Configuration, options CompareOptions) (*ComparisonSet, error) {
	names := options.Strategies
	if len(names) == 0 {
		names = domain.StrategyNames()
	}

	strategies := make([]reserve.Strategy, len(names))
	for i, name := range names {
		s, err := reserve.CreateStrategy(name)
		if err != nil {
			return nil, err
		}
		strategies[i] = s
	}

	base := options.BaseStrategy
	if base == "" {
		base = strategies[0].Name()
	}

	results := make([]StrategyResult, len(strategies))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range strategies {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result := ce.Reserve.Run(s, config.Partners, config.Partnership)
			results[i] = StrategyResult{
				Strategy:    s.Name(),
				Description: s.Description(),
				Result:      &result,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("strategy comparison failed: %w", err)
	}

	cs := &ComparisonSet{
		BaseStrategy: base,
		Results:      results,
	}
	if cs.Base() == nil {
		return nil, fmt.Errorf("base strategy %s is not part of the comparison", base)
	}
	calculateComparison(cs)
	cs.PartnerDeltas = calculatePartnerDeltas(results)
	cs.Recommendations = GenerateRecommendations(cs)

	return cs, nil
}
