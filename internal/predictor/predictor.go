// Package predictor ranks catalog conditions by how much of the user's
// symptom set they cover. It is informational only.
package predictor

import (
	"math"
	"slices"

	"github.com/wolfman30/symptom-checker/internal/catalog"
)

// TopN is how many conditions Predict returns at most.
const TopN = 3

// Result is one scored condition.
type Result struct {
	Condition  catalog.HealthCondition
	MatchCount int
	// Score is round(100 * MatchCount / |selected|), in 0..100.
	Score int
}

// Rank scores every condition against the distinct ids in symptomIDs and
// returns those with a positive score, best first. Equal scores keep the
// catalog definition order.
func Rank(cat *catalog.Catalog, symptomIDs []string) []Result {
	selected := distinct(symptomIDs)
	n := len(selected)
	if n == 0 || cat == nil {
		return nil
	}

	var results []Result
	for _, cond := range cat.Conditions() {
		count := 0
		for _, id := range selected {
			if cond.Lists(id) {
				count++
			}
		}
		score := int(math.Round(100 * float64(count) / float64(n)))
		if score == 0 {
			continue
		}
		results = append(results, Result{Condition: cond, MatchCount: count, Score: score})
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		return b.Score - a.Score
	})
	return results
}

// Predict returns up to TopN conditions from Rank. An empty result is a
// valid outcome meaning there is not enough data.
func Predict(cat *catalog.Catalog, symptomIDs []string) []catalog.HealthCondition {
	ranked := Rank(cat, symptomIDs)
	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}
	out := make([]catalog.HealthCondition, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Condition)
	}
	return out
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
