package calibrate

import (
	"sort"

	"github.com/tsawler/concordia/model"
)

// Observation is one historical data point: how accurately a structure
// method's winning grid reproduced the ground truth for one table.
type Observation struct {
	Table    string // table fingerprint
	Method   model.MethodID
	Accuracy float64 // ground-truth cell accuracy, 0-1
}

// MultiplierFloor is the minimum multiplier any participating method keeps.
// A method that never won may still be the best choice on an unseen table,
// so its voice is attenuated, never silenced.
const MultiplierFloor = 0.1

// Multipliers aggregates a batch of observations into per-method trust
// multipliers for the combination engine.
//
// For each table, the participating method with the highest accuracy is
// credited one win (ties break by the declared priority order, then by
// method name). Each method's win rate is wins/participations; the method
// with the top win rate gets multiplier 1.0 and every other method gets its
// win rate divided by the top, floored at MultiplierFloor.
func Multipliers(batch []Observation, priority []model.MethodID) map[model.MethodID]float64 {
	byTable := make(map[string][]Observation)
	var tables []string
	for _, obs := range batch {
		if _, seen := byTable[obs.Table]; !seen {
			tables = append(tables, obs.Table)
		}
		byTable[obs.Table] = append(byTable[obs.Table], obs)
	}
	sort.Strings(tables)

	wins := make(map[model.MethodID]int)
	participations := make(map[model.MethodID]int)

	for _, table := range tables {
		obs := byTable[table]
		for _, o := range obs {
			participations[o.Method]++
		}
		wins[bestMethod(obs, priority)]++
	}

	maxRate := 0.0
	rates := make(map[model.MethodID]float64, len(participations))
	for method, n := range participations {
		rate := float64(wins[method]) / float64(n)
		rates[method] = rate
		if rate > maxRate {
			maxRate = rate
		}
	}

	multipliers := make(map[model.MethodID]float64, len(rates))
	for method, rate := range rates {
		m := 1.0
		if maxRate > 0 {
			m = rate / maxRate
		}
		if m < MultiplierFloor {
			m = MultiplierFloor
		}
		multipliers[method] = m
	}
	return multipliers
}

// bestMethod picks the winning method for one table's observations.
func bestMethod(obs []Observation, priority []model.MethodID) model.MethodID {
	best := obs[0]
	for _, o := range obs[1:] {
		switch {
		case o.Accuracy > best.Accuracy:
			best = o
		case o.Accuracy == best.Accuracy && preferred(o.Method, best.Method, priority):
			best = o
		}
	}
	return best.Method
}

// preferred reports whether a outranks b under the priority order, falling
// back to name order for undeclared methods.
func preferred(a, b model.MethodID, priority []model.MethodID) bool {
	ia, ib := len(priority), len(priority)
	for i, m := range priority {
		if m == a && i < ia {
			ia = i
		}
		if m == b && i < ib {
			ib = i
		}
	}
	if ia != ib {
		return ia < ib
	}
	return a < b
}
