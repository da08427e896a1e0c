package score

import (
	"errors"
	"sort"

	"github.com/tsawler/concordia/model"
)

// GridScore is one grid's scoring breakdown: its rank under each evaluated
// metric and the rank-sum total. Lower ranks are better.
type GridScore struct {
	Key         model.GridKey
	MetricRanks map[string]int
	TotalRank   int
}

// ErrNoGrids is returned when selection is invoked with no candidates.
var ErrNoGrids = errors.New("no candidate grids to select from")

// Select ranks the candidate grids with the default metric set and returns
// the winner's key plus every grid's score breakdown. See SelectWith.
func Select(grids []model.CellGrid, ctx model.TableContext, gt *model.GroundTruth, priority []model.MethodID) (model.GridKey, map[model.GridKey]GridScore, error) {
	return SelectWith(DefaultMetrics(), grids, ctx, gt, priority)
}

// SelectWith performs rank-sum selection over the given metrics.
//
// For each metric, all grids are ranked by value with competition ranking:
// tied grids share the lowest rank of their group. A metric unavailable for
// any grid is excluded for all grids. Each grid's ranks are summed and the
// lowest total wins. Ties on the total break by the declared structure
// method priority order, then by cell method name, so selection is fully
// deterministic.
func SelectWith(metrics []Metric, grids []model.CellGrid, ctx model.TableContext, gt *model.GroundTruth, priority []model.MethodID) (model.GridKey, map[model.GridKey]GridScore, error) {
	if len(grids) == 0 {
		return model.GridKey{}, nil, ErrNoGrids
	}

	scores := make(map[model.GridKey]GridScore, len(grids))
	order := make([]model.GridKey, 0, len(grids))
	for _, g := range grids {
		key := g.Key()
		scores[key] = GridScore{Key: key, MetricRanks: make(map[string]int)}
		order = append(order, key)
	}

	for _, metric := range metrics {
		values := make([]float64, len(grids))
		available := true
		for i, g := range grids {
			v, ok := metric.Eval(g, ctx, gt)
			if !ok {
				available = false
				break
			}
			values[i] = v
		}
		if !available {
			continue // excluded uniformly, never asymmetrically
		}

		for i, rank := range competitionRanks(values, metric.HigherBetter) {
			s := scores[order[i]]
			s.MetricRanks[metric.Name] = rank
			s.TotalRank += rank
			scores[order[i]] = s
		}
	}

	winner := order[0]
	for _, key := range order[1:] {
		if better(scores[key], scores[winner], priority) {
			winner = key
		}
	}
	return winner, scores, nil
}

// competitionRanks assigns each value its competition rank: values sort
// from best to worst and ties share the lowest (best) rank in their group.
func competitionRanks(values []float64, higherBetter bool) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if higherBetter {
			return values[order[a]] > values[order[b]]
		}
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]int, len(values))
	for pos, idx := range order {
		if pos > 0 && values[idx] == values[order[pos-1]] {
			ranks[idx] = ranks[order[pos-1]]
			continue
		}
		ranks[idx] = pos + 1
	}
	return ranks
}

// better reports whether a should be preferred over b under the total order
// (TotalRank, structure priority index, cell method name).
func better(a, b GridScore, priority []model.MethodID) bool {
	if a.TotalRank != b.TotalRank {
		return a.TotalRank < b.TotalRank
	}
	pa, pb := priorityIndex(a.Key.Structure, priority), priorityIndex(b.Key.Structure, priority)
	if pa != pb {
		return pa < pb
	}
	if a.Key.Structure != b.Key.Structure {
		return a.Key.Structure < b.Key.Structure
	}
	return a.Key.Cell < b.Key.Cell
}

// priorityIndex returns the method's position in the declared priority
// order, or a position past the end for undeclared methods.
func priorityIndex(method model.MethodID, priority []model.MethodID) int {
	for i, m := range priority {
		if m == method {
			return i
		}
	}
	return len(priority)
}
