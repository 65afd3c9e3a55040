package triage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/symptom-checker/internal/catalog"
	"github.com/wolfman30/symptom-checker/internal/compliance"
	"github.com/wolfman30/symptom-checker/internal/flow"
)

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func testEnv() Env {
	return Env{
		Catalog: catalog.Default(),
		IDs:     &SequenceGenerator{},
		Now:     func() time.Time { return fixedNow },
	}
}

func mustApply(t *testing.T, env Env, st State, act Action) State {
	t.Helper()
	next, err := Apply(env, st, act)
	require.NoError(t, err, "action %s %q at %s", act.Kind, act.Text, st.Stage)
	return next
}

func atSymptoms(t *testing.T, env Env, area string) State {
	t.Helper()
	st := mustApply(t, env, NewState(), Action{Kind: ActionStart})
	st = mustApply(t, env, st, Action{Kind: ActionFreeText, Text: "I feel unwell"})
	return mustApply(t, env, st, Action{Kind: ActionOption, Text: area})
}

func countContent(msgs []Message, content string) int {
	n := 0
	for _, m := range msgs {
		if m.Content == content {
			n++
		}
	}
	return n
}

func TestReduceStart(t *testing.T) {
	next, emissions, err := Reduce(testEnv(), State{Stage: flow.StageSeverity}, Action{Kind: ActionStart})
	require.NoError(t, err)

	assert.Equal(t, flow.StageInitial, next.Stage)
	assert.Empty(t, next.Messages)
	assert.Nil(t, next.BodyArea)
	require.Len(t, emissions, 1)
	assert.Equal(t, DelayNone, emissions[0].Delay)
	assert.Equal(t, RoleAssistant, emissions[0].Message.Role)
	assert.Equal(t, flow.DefinitionFor(flow.StageInitial).Prompt, emissions[0].Message.Content)
	assert.Empty(t, emissions[0].Message.Options)
	assert.Equal(t, fixedNow, emissions[0].Message.Timestamp)
}

func TestReduceFullWalkthrough(t *testing.T) {
	env := testEnv()
	st := atSymptoms(t, env, "head")
	require.Equal(t, flow.StageSymptoms, st.Stage)
	require.NotNil(t, st.BodyArea)
	assert.Equal(t, "Head", st.BodyArea.Name)

	last := st.Messages[len(st.Messages)-1]
	assert.Equal(t, []string{"Headache", "Dizziness", "Vision changes", "Facial pain"}, last.Options)

	steps := []struct {
		act       Action
		wantStage flow.Stage
	}{
		{Action{Kind: ActionOption, Text: "Headache"}, flow.StageSymptoms},
		{Action{Kind: ActionOption, Text: "Fatigue"}, flow.StageSymptoms},
		{Action{Kind: ActionOption, Text: "sleep issues"}, flow.StageSymptoms},
		{Action{Kind: ActionOption, Text: flow.OptionContinue}, flow.StageDetails},
		{Action{Kind: ActionFreeText, Text: "Worse in the evening"}, flow.StageDuration},
		{Action{Kind: ActionOption, Text: "1-3 DAYS"}, flow.StageSeverity},
		{Action{Kind: ActionFreeText, Text: "about a 5"}, flow.StageAdditional},
		{Action{Kind: ActionFreeText, Text: "none"}, flow.StageResults},
	}
	for _, step := range steps {
		st = mustApply(t, env, st, step.act)
		assert.Equal(t, step.wantStage, st.Stage, "after %s %q", step.act.Kind, step.act.Text)
	}

	assert.Equal(t, []string{"headache", "fatigue", "sleep_issues"}, st.SymptomIDs())
	assert.Equal(t, "Worse in the evening", st.FreeTextAnswers[flow.StageDetails])
	assert.Equal(t, "1-3 days", st.FreeTextAnswers[flow.StageDuration])
	assert.Equal(t, "about a 5", st.FreeTextAnswers[flow.StageSeverity])
	assert.Equal(t, "none", st.FreeTextAnswers[flow.StageAdditional])

	result := st.Messages[len(st.Messages)-1]
	assert.Equal(t, RoleResult, result.Role)
	assert.Equal(t, []string{flow.OptionStartOver}, result.Options)
	assert.Contains(t, result.Content, "**1. Tension Headache**")
	assert.Contains(t, result.Content, "**2. Common Cold**")
	assert.Contains(t, result.Content, "**3. Migraine**")
	assert.True(t, strings.HasSuffix(result.Content, compliance.DisclaimerFullText))
}

func TestReduceDuplicateSymptomKeepsOneEntry(t *testing.T) {
	env := testEnv()
	st := atSymptoms(t, env, "Chest")

	st = mustApply(t, env, st, Action{Kind: ActionOption, Text: "Cough"})
	st = mustApply(t, env, st, Action{Kind: ActionOption, Text: "Cough"})

	assert.Equal(t, []string{"cough"}, st.SymptomIDs())
	assert.Equal(t, 2, countContent(st.Messages, "I'm experiencing cough"))
}

func TestReduceChestScenario(t *testing.T) {
	env := testEnv()
	st := atSymptoms(t, env, "Chest")
	before := len(st.Messages)

	st = mustApply(t, env, st, Action{Kind: ActionOption, Text: "Chest pain"})
	assert.Equal(t, 0, countContent(st.Messages, flow.AddMorePrompt), "first pick does not re-prompt")

	st = mustApply(t, env, st, Action{Kind: ActionOption, Text: "Shortness of breath"})
	st = mustApply(t, env, st, Action{Kind: ActionOption, Text: flow.OptionContinue})

	assert.Equal(t, flow.StageDetails, st.Stage)
	assert.Equal(t, []string{"chest_pain", "shortness_of_breath"}, st.SymptomIDs())
	assert.Equal(t, 1, countContent(st.Messages, flow.AddMorePrompt))

	added := st.Messages[before:]
	require.Len(t, added, 4)
	assert.Equal(t, RoleUser, added[0].Role)
	assert.Equal(t, "I'm experiencing chest pain", added[0].Content)
	assert.Equal(t, "I'm experiencing shortness of breath", added[1].Content)
	assert.Equal(t, flow.AddMorePrompt, added[2].Content)
	assert.Equal(t, []string{"Heart palpitations", "Cough", flow.OptionContinue}, added[2].Options)
	assert.Equal(t, flow.DefinitionFor(flow.StageDetails).Prompt, added[3].Content)
}

func TestReduceContinueWithoutSymptoms(t *testing.T) {
	env := testEnv()
	st := atSymptoms(t, env, "General")
	st = mustApply(t, env, st, Action{Kind: ActionOption, Text: flow.OptionContinue})
	assert.Equal(t, flow.StageDetails, st.Stage)
	assert.Empty(t, st.Symptoms)
}

func TestReduceSymptomLookupIsCatalogWide(t *testing.T) {
	env := testEnv()
	st := atSymptoms(t, env, "Chest")
	st = mustApply(t, env, st, Action{Kind: ActionOption, Text: "Nausea"})
	assert.Equal(t, []string{"nausea"}, st.SymptomIDs())
}

func TestReduceUnknownOptionChangesNothing(t *testing.T) {
	env := testEnv()
	start := mustApply(t, env, NewState(), Action{Kind: ActionStart})
	bodyArea := mustApply(t, env, start, Action{Kind: ActionFreeText, Text: "hi"})
	symptoms := mustApply(t, env, bodyArea, Action{Kind: ActionOption, Text: "Abdomen"})
	details := mustApply(t, env, symptoms, Action{Kind: ActionOption, Text: flow.OptionContinue})
	duration := mustApply(t, env, details, Action{Kind: ActionFreeText, Text: "after meals"})
	severity := mustApply(t, env, duration, Action{Kind: ActionOption, Text: "3-7 days"})
	additional := mustApply(t, env, severity, Action{Kind: ActionOption, Text: "7-10 (Severe)"})
	results := mustApply(t, env, additional, Action{Kind: ActionFreeText, Text: "no"})

	states := []State{start, bodyArea, symptoms, details, duration, severity, additional, results}
	for _, st := range states {
		for _, option := range []string{"", "Spleen", "Maybe later", "Start  Over", "No,continue"} {
			t.Run(string(st.Stage)+"/"+option, func(t *testing.T) {
				next, emissions, err := Reduce(env, st, Action{Kind: ActionOption, Text: option})
				assert.ErrorIs(t, err, ErrInvalidOption)
				assert.Empty(t, emissions)
				assert.Equal(t, st.Stage, next.Stage)
				assert.Len(t, next.Messages, len(st.Messages))
			})
		}
	}
}

func TestReduceFreeTextRules(t *testing.T) {
	env := testEnv()
	symptoms := atSymptoms(t, env, "Head")

	tests := []struct {
		name    string
		st      State
		text    string
		wantErr error
	}{
		{name: "blank at initial", st: NewState(), text: "   ", wantErr: ErrEmptyInput},
		{name: "text at body area", st: State{Stage: flow.StageBodyArea}, text: "Chest", wantErr: ErrInvalidOption},
		{name: "text at symptoms", st: symptoms, text: "Headache", wantErr: ErrInvalidOption},
		{name: "text at results", st: State{Stage: flow.StageResults}, text: "again", wantErr: ErrInvalidOption},
		{name: "blank at additional", st: State{Stage: flow.StageAdditional}, text: "", wantErr: ErrEmptyInput},
		{name: "unknown stage", st: State{Stage: flow.Stage("bogus")}, text: "hello", wantErr: ErrUnknownStage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, emissions, err := Reduce(env, tt.st, Action{Kind: ActionFreeText, Text: tt.text})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, emissions)
			assert.Equal(t, tt.st.Stage, next.Stage)
		})
	}
}

func TestReduceOptionAtUnknownStage(t *testing.T) {
	_, _, err := Reduce(testEnv(), State{Stage: flow.Stage("bogus")}, Action{Kind: ActionOption, Text: "x"})
	assert.ErrorIs(t, err, ErrUnknownStage)
}

func TestReduceAnalyzeEmissions(t *testing.T) {
	env := testEnv()
	cat := env.Catalog
	headache, _ := cat.Symptom("headache")
	fatigue, _ := cat.Symptom("fatigue")
	st := NewState()
	st.Stage = flow.StageAdditional
	st.Symptoms = []catalog.Symptom{headache, fatigue}

	next, emissions, err := Reduce(env, st, Action{Kind: ActionAnalyze, Text: " nothing else "})
	require.NoError(t, err)
	assert.Equal(t, flow.StageResults, next.Stage)
	assert.Equal(t, "nothing else", next.FreeTextAnswers[flow.StageAdditional])

	require.Len(t, emissions, 2)
	assert.Equal(t, DelayNone, emissions[0].Delay)
	assert.Equal(t, "nothing else", emissions[0].Message.Content)
	assert.Equal(t, DelayAnalysis, emissions[1].Delay)
	assert.Equal(t, RoleResult, emissions[1].Message.Role)
	require.NotEmpty(t, emissions[1].Conditions)
	assert.Equal(t, FormatResults(emissions[1].Conditions), emissions[1].Message.Content)

	// The input state is not mutated.
	assert.Empty(t, st.FreeTextAnswers)
	assert.Equal(t, flow.StageAdditional, st.Stage)
}

func TestReduceAnalyzeOutsideAdditional(t *testing.T) {
	_, _, err := Reduce(testEnv(), State{Stage: flow.StageDetails}, Action{Kind: ActionAnalyze, Text: "x"})
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestReduceInsufficientData(t *testing.T) {
	env := testEnv()
	weightLoss, _ := env.Catalog.Symptom("weight_loss")
	st := NewState()
	st.Stage = flow.StageAdditional
	st.Symptoms = []catalog.Symptom{weightLoss}

	next, err := Apply(env, st, Action{Kind: ActionFreeText, Text: "no"})
	require.NoError(t, err)
	result := next.Messages[len(next.Messages)-1]
	assert.Equal(t, resultsInsufficientData+"\n\n"+compliance.DisclaimerFullText, result.Content)
	assert.Equal(t, []string{flow.OptionStartOver}, result.Options)
}

func TestReduceStartOverMatchesFreshStart(t *testing.T) {
	env := testEnv()
	st := NewState()
	st.Stage = flow.StageResults
	st.BodyArea = &catalog.BodyArea{ID: "chest", Name: "Chest"}
	st.FreeTextAnswers[flow.StageDetails] = "x"

	restarted, restartEmissions, err := Reduce(env, st, Action{Kind: ActionOption, Text: flow.OptionStartOver})
	require.NoError(t, err)
	fresh, freshEmissions, err := Reduce(env, NewState(), Action{Kind: ActionStart})
	require.NoError(t, err)

	assert.Equal(t, fresh, restarted)
	require.Len(t, restartEmissions, 1)
	assert.Equal(t, freshEmissions[0].Message.Content, restartEmissions[0].Message.Content)
}

func TestComputeOptions(t *testing.T) {
	cat := catalog.Default()
	chest, _ := cat.FindBodyAreaByName("Chest")
	cough, _ := cat.Symptom("cough")

	tests := []struct {
		name string
		st   State
		want []string
	}{
		{name: "initial", st: State{Stage: flow.StageInitial}, want: nil},
		{name: "body area", st: State{Stage: flow.StageBodyArea}, want: []string{"Head", "Chest", "Abdomen", "Joints & Muscles", "General"}},
		{name: "symptoms without area", st: State{Stage: flow.StageSymptoms}, want: nil},
		{name: "symptoms first pick", st: State{Stage: flow.StageSymptoms, BodyArea: &chest}, want: []string{"Chest pain", "Shortness of breath", "Heart palpitations", "Cough"}},
		{
			name: "symptoms remaining",
			st:   State{Stage: flow.StageSymptoms, BodyArea: &chest, Symptoms: []catalog.Symptom{cough}},
			want: []string{"Chest pain", "Shortness of breath", "Heart palpitations", flow.OptionContinue},
		},
		{name: "duration", st: State{Stage: flow.StageDuration}, want: flow.DurationOptions},
		{name: "severity", st: State{Stage: flow.StageSeverity}, want: flow.SeverityOptions},
		{name: "results", st: State{Stage: flow.StageResults}, want: []string{flow.OptionStartOver}},
		{name: "unknown", st: State{Stage: "bogus"}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeOptions(cat, tt.st))
		})
	}
}

func TestFormatResults(t *testing.T) {
	conditions := []catalog.HealthCondition{
		{ID: "a", Name: "Alpha", Description: "First.", Urgency: catalog.UrgencyHigh},
		{ID: "b", Name: "Beta", Description: "Second.", Urgency: catalog.UrgencyLow},
	}
	want := resultsIntro + "\n\n" +
		"**1. Alpha** - First.\n**Urgency**: " + catalog.UrgencyLabelHigh + "\n\n" +
		"**2. Beta** - Second.\n**Urgency**: " + catalog.UrgencyLabelLow + "\n\n" +
		compliance.DisclaimerFullText
	assert.Equal(t, want, FormatResults(conditions))
}

func TestStateCloneIsDeep(t *testing.T) {
	env := testEnv()
	st := atSymptoms(t, env, "Chest")
	clone := st.Clone()

	clone.BodyArea.Symptoms[0].Name = "changed"
	clone.FreeTextAnswers[flow.StageInitial] = "changed"
	clone.Messages[0].Content = "changed"

	assert.Equal(t, "Chest pain", st.BodyArea.Symptoms[0].Name)
	assert.Equal(t, "I feel unwell", st.FreeTextAnswers[flow.StageInitial])
	assert.NotEqual(t, "changed", st.Messages[0].Content)
}
