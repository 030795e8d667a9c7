package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/experiment"
)

// ErrNoCandidate is returned when no grid point produced a usable run.
var ErrNoCandidate = errors.New("optim: no stable candidate")

// GridSearch evaluates every combination of parameter values and keeps the
// one that minimises a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	logger     *log.Logger
}

func NewGridSearch(params []string, ranges [][]float64, logger *log.Logger) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("got %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("parameter %s has no values", params[i])
		}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &GridSearch{paramNames: params, ranges: ranges, logger: logger}, nil
}

// Search runs base with each grid point applied. Runs that diverge or fail
// to build are skipped. Pass Maximize to flip the objective.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, registry *experiment.Registry, metricName string, maximize bool) (map[string]float64, float64, error) {
	sign := 1.0
	if maximize {
		sign = -1
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		cfg := base.Clone()
		if err := cfg.Apply(params); err != nil {
			return err
		}
		exp := experiment.New(cfg, g.logger)
		if err := exp.Setup(registry); err != nil {
			g.logger.Debug("grid point rejected", "params", params, "err", err)
			return nil
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		if result.Unstable() {
			g.logger.Debug("grid point diverged", "params", params)
			return nil
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("unknown metric: %s", metricName)
		}
		if sign*val < best {
			best = sign * val
			bestParams = maps.Clone(params)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidate
	}
	return bestParams, sign * best, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, eval func(map[string]float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return eval(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := maps.Clone(current)
		next[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, next, eval); err != nil {
			return err
		}
	}
	return nil
}
