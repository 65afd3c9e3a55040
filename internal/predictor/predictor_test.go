package predictor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/symptom-checker/internal/catalog"
)

func names(conds []catalog.HealthCondition) []string {
	out := make([]string, 0, len(conds))
	for _, c := range conds {
		out = append(out, c.Name)
	}
	return out
}

func TestPredict_TensionHeadacheExample(t *testing.T) {
	cat := catalog.Default()
	ids := []string{"headache", "fatigue", "sleep_issues"}

	ranked := Rank(cat, ids)
	require.GreaterOrEqual(t, len(ranked), 3)
	assert.Equal(t, "Tension Headache", ranked[0].Condition.Name)
	assert.Equal(t, 100, ranked[0].Score)
	assert.Equal(t, 3, ranked[0].MatchCount)
	assert.Equal(t, "Common Cold", ranked[1].Condition.Name)
	assert.Equal(t, 67, ranked[1].Score)
	assert.Equal(t, "Migraine", ranked[2].Condition.Name)
	assert.Equal(t, 67, ranked[2].Score)

	assert.Equal(t, []string{"Tension Headache", "Common Cold", "Migraine"}, names(Predict(cat, ids)))
}

func TestPredict_NoMatch(t *testing.T) {
	assert.Empty(t, Predict(catalog.Default(), []string{"weight_loss"}))
	assert.Empty(t, Rank(catalog.Default(), []string{"weight_loss"}))
}

func TestPredict_EmptyInput(t *testing.T) {
	assert.Empty(t, Predict(catalog.Default(), nil))
	assert.Empty(t, Predict(catalog.Default(), []string{}))
	assert.Empty(t, Predict(nil, []string{"headache"}))
}

func TestPredict_DuplicatesCountOnce(t *testing.T) {
	cat := catalog.Default()
	withDupes := Rank(cat, []string{"headache", "headache", "fatigue"})
	without := Rank(cat, []string{"headache", "fatigue"})
	assert.Equal(t, without, withDupes)
}

func TestPredict_ChestScenario(t *testing.T) {
	cat := catalog.Default()
	ranked := Rank(cat, []string{"chest_pain", "shortness_of_breath"})
	require.Len(t, ranked, 2)
	// Heart Attack precedes Bronchitis in the catalog and both cover 2/2.
	assert.Equal(t, "Heart Attack", ranked[0].Condition.Name)
	assert.Equal(t, "Bronchitis", ranked[1].Condition.Name)
	assert.Equal(t, 100, ranked[1].Score)
}

func TestPredict_UnknownIDsLowerScores(t *testing.T) {
	ranked := Rank(catalog.Default(), []string{"facial_pain", "not_a_symptom"})
	require.Len(t, ranked, 1)
	assert.Equal(t, "Sinusitis", ranked[0].Condition.Name)
	assert.Equal(t, 50, ranked[0].Score)
}

func TestPredict_Properties(t *testing.T) {
	cat := catalog.Default()
	all := cat.Symptoms()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(len(all))
		perm := rng.Perm(len(all))[:n]
		ids := make([]string, 0, n)
		for _, idx := range perm {
			ids = append(ids, all[idx].ID)
		}

		got := Predict(cat, ids)
		assert.LessOrEqual(t, len(got), TopN)

		ranked := Rank(cat, ids)
		for j, r := range ranked {
			assert.Positive(t, r.Score)
			assert.LessOrEqual(t, r.Score, 100)
			if j > 0 {
				assert.GreaterOrEqual(t, ranked[j-1].Score, r.Score)
			}
		}
		// Same input, same output.
		assert.Equal(t, got, Predict(cat, ids))
	}
}
