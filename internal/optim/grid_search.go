// Package optim searches simulation parameter grids for the setting that
// best satisfies a run metric.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/wavesim/internal/experiment"
)

type Point struct {
	Params map[string]float64
	Value  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	Maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs one experiment per grid point and returns the best point
// along with every evaluated one, in grid order.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (*Point, []Point, error) {
	var all []Point
	if err := g.searchRecursive(ctx, 0, map[string]float64{}, build, metricName, &all); err != nil {
		return nil, all, err
	}

	var best *Point
	for i := range all {
		p := &all[i]
		if math.IsNaN(p.Value) {
			continue
		}
		if best == nil || g.better(p.Value, best.Value) {
			best = p
		}
	}
	if best == nil {
		return nil, all, fmt.Errorf("optim: no grid point produced %q", metricName)
	}
	return best, all, nil
}

func (g *GridSearch) better(a, b float64) bool {
	if g.Maximize {
		return a > b
	}
	return a < b
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	all *[]Point,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		exp, err := build(current)
		if err != nil {
			return err
		}
		run, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		val, ok := experiment.Metric(run, metricName)
		if !ok || run.Meta.Diverged {
			val = math.NaN()
		}
		*all = append(*all, Point{Params: current, Value: val})
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, next, build, metricName, all); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
