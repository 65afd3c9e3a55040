package triage

import (
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/symptom-checker/internal/catalog"
	"github.com/wolfman30/symptom-checker/internal/flow"
	"github.com/wolfman30/symptom-checker/internal/predictor"
)

// Env is what the reducer needs besides the state.
type Env struct {
	Catalog *catalog.Catalog
	IDs     IDGenerator
	Now     func() time.Time
}

func (e Env) withDefaults() Env {
	if e.Catalog == nil {
		e.Catalog = catalog.Default()
	}
	if e.IDs == nil {
		e.IDs = UUIDGenerator{}
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	return e
}

// ActionKind enumerates the inputs the reducer understands.
type ActionKind int

const (
	ActionStart ActionKind = iota
	ActionFreeText
	ActionOption
	ActionAnalyze
	ActionReset
)

func (k ActionKind) String() string {
	switch k {
	case ActionStart:
		return "start"
	case ActionFreeText:
		return "free_text"
	case ActionOption:
		return "option"
	case ActionAnalyze:
		return "analyze"
	case ActionReset:
		return "reset"
	default:
		return fmt.Sprintf("action(%d)", int(k))
	}
}

// Action is one user input.
type Action struct {
	Kind ActionKind
	Text string
}

// Delay classifies how long an emission waits before it is appended.
type Delay int

const (
	DelayNone Delay = iota
	DelayTyping
	DelayAnalysis
)

// Emission is a message the reducer wants appended to the log.
type Emission struct {
	Message Message
	Delay   Delay
	// Conditions is set on the results emission.
	Conditions []catalog.HealthCondition
}

// Reduce computes the state that follows act. The returned state does not
// contain the emitted messages; callers append them, honoring each Delay.
// On error st is returned unchanged and nothing is emitted.
func Reduce(env Env, st State, act Action) (State, []Emission, error) {
	env = env.withDefaults()

	switch act.Kind {
	case ActionStart, ActionReset:
		return start(env)
	case ActionFreeText:
		return reduceFreeText(env, st, act.Text)
	case ActionOption:
		return reduceOption(env, st, act.Text)
	case ActionAnalyze:
		return reduceAnalyze(env, st, act.Text)
	default:
		return st, nil, fmt.Errorf("triage: unsupported action %s: %w", act.Kind, ErrInvalidOption)
	}
}

// Apply runs Reduce and appends every emission immediately.
func Apply(env Env, st State, act Action) (State, error) {
	next, emissions, err := Reduce(env, st, act)
	if err != nil {
		return st, err
	}
	for _, em := range emissions {
		next.Messages = append(next.Messages, em.Message)
	}
	return next, nil
}

func start(env Env) (State, []Emission, error) {
	next := NewState()
	em, err := promptEmission(env, next, DelayNone)
	if err != nil {
		return State{}, nil, err
	}
	return next, []Emission{em}, nil
}

func reduceFreeText(env Env, st State, text string) (State, []Emission, error) {
	def, ok := flow.Lookup(st.Stage)
	if !ok {
		return st, nil, fmt.Errorf("triage: free text at %q: %w", string(st.Stage), ErrUnknownStage)
	}
	if !def.AcceptsText {
		return st, nil, fmt.Errorf("triage: free text at %s: %w", st.Stage, ErrInvalidOption)
	}
	if st.Stage == flow.StageAdditional {
		return reduceAnalyze(env, st, text)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return st, nil, fmt.Errorf("triage: free text at %s: %w", st.Stage, ErrEmptyInput)
	}

	next := st.Clone()
	next.FreeTextAnswers[st.Stage] = text
	next.Stage = def.Next
	return advance(env, next, text)
}

func reduceOption(env Env, st State, option string) (State, []Emission, error) {
	def, ok := flow.Lookup(st.Stage)
	if !ok {
		return st, nil, fmt.Errorf("triage: option at %q: %w", string(st.Stage), ErrUnknownStage)
	}
	if !def.AcceptsOption {
		return st, nil, fmt.Errorf("triage: option %q at %s: %w", option, st.Stage, ErrInvalidOption)
	}

	switch st.Stage {
	case flow.StageBodyArea:
		area, ok := env.Catalog.FindBodyAreaByName(option)
		if !ok {
			return st, nil, fmt.Errorf("triage: body area %q: %w", option, ErrInvalidOption)
		}
		next := st.Clone()
		next.BodyArea = &area
		next.Symptoms = nil
		next.Stage = def.Next
		return advance(env, next, area.Name)

	case flow.StageSymptoms:
		return reduceSymptom(env, st, def, option)

	case flow.StageDuration, flow.StageSeverity:
		value, ok := matchStatic(def.Options, option)
		if !ok {
			return st, nil, fmt.Errorf("triage: option %q at %s: %w", option, st.Stage, ErrInvalidOption)
		}
		next := st.Clone()
		next.FreeTextAnswers[st.Stage] = value
		next.Stage = def.Next
		return advance(env, next, value)

	case flow.StageResults:
		if _, ok := matchStatic(def.Options, option); !ok {
			return st, nil, fmt.Errorf("triage: option %q at %s: %w", option, st.Stage, ErrInvalidOption)
		}
		return start(env)
	}

	return st, nil, fmt.Errorf("triage: option at %s: %w", st.Stage, ErrInvalidOption)
}

func reduceSymptom(env Env, st State, def flow.Definition, option string) (State, []Emission, error) {
	if option == flow.OptionContinue {
		next := st.Clone()
		next.Stage = def.Next
		em, err := promptEmission(env, next, DelayTyping)
		if err != nil {
			return st, nil, err
		}
		return next, []Emission{em}, nil
	}

	// The lookup spans the whole catalog, not just the chosen area, so a
	// symptom named from another area is accepted as well.
	sym, ok := env.Catalog.FindSymptomByName(option)
	if !ok {
		return st, nil, fmt.Errorf("triage: symptom %q: %w", option, ErrInvalidOption)
	}

	firstPick := len(st.Symptoms) == 0
	next := st.Clone()
	if !next.HasSymptom(sym.ID) {
		next.Symptoms = append(next.Symptoms, sym)
	}

	emissions := []Emission{{
		Message: newMessage(env, RoleUser, "I'm experiencing "+strings.ToLower(sym.Name), nil),
	}}
	if !firstPick {
		emissions = append(emissions, Emission{
			Message: newMessage(env, RoleAssistant, flow.AddMorePrompt, remainingSymptoms(next)),
			Delay:   DelayTyping,
		})
	}
	return next, emissions, nil
}

func reduceAnalyze(env Env, st State, text string) (State, []Emission, error) {
	if st.Stage != flow.StageAdditional {
		if !st.Stage.Valid() {
			return st, nil, fmt.Errorf("triage: analyze at %q: %w", string(st.Stage), ErrUnknownStage)
		}
		return st, nil, fmt.Errorf("triage: analyze at %s: %w", st.Stage, ErrInvalidOption)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return st, nil, fmt.Errorf("triage: additional information: %w", ErrEmptyInput)
	}

	next := st.Clone()
	next.FreeTextAnswers[flow.StageAdditional] = text
	next.Stage = flow.StageResults

	conditions := predictor.Predict(env.Catalog, next.SymptomIDs())
	results := Emission{
		Message:    newMessage(env, RoleResult, FormatResults(conditions), ComputeOptions(env.Catalog, next)),
		Delay:      DelayAnalysis,
		Conditions: conditions,
	}
	return next, []Emission{
		{Message: newMessage(env, RoleUser, text, nil)},
		results,
	}, nil
}

// advance echoes the user's input and prompts for the stage next is in.
func advance(env Env, next State, userText string) (State, []Emission, error) {
	prompt, err := promptEmission(env, next, DelayTyping)
	if err != nil {
		return State{}, nil, err
	}
	return next, []Emission{
		{Message: newMessage(env, RoleUser, userText, nil)},
		prompt,
	}, nil
}

func promptEmission(env Env, st State, delay Delay) (Emission, error) {
	text, ok := promptText(st)
	if !ok {
		return Emission{}, fmt.Errorf("triage: prompt for %q: %w", string(st.Stage), ErrUnknownStage)
	}
	return Emission{
		Message: newMessage(env, RoleAssistant, text, ComputeOptions(env.Catalog, st)),
		Delay:   delay,
	}, nil
}

func newMessage(env Env, role Role, content string, options []string) Message {
	return Message{
		ID:        env.IDs.NewID(),
		Role:      role,
		Content:   content,
		Options:   options,
		Timestamp: env.Now(),
	}
}
