// Package flow defines the conversation stages and the static table that
// maps each stage to its prompt, options and successor.
package flow

import "fmt"

// Stage is one node of the conversation flow.
type Stage string

const (
	StageInitial    Stage = "initial"
	StageBodyArea   Stage = "bodyArea"
	StageSymptoms   Stage = "symptoms"
	StageDetails    Stage = "details"
	StageDuration   Stage = "duration"
	StageSeverity   Stage = "severity"
	StageAdditional Stage = "additional"
	StageResults    Stage = "results"
)

// Sentinel options with fixed meaning.
const (
	OptionContinue  = "No, continue"
	OptionStartOver = "Start Over"
)

// AddMorePrompt re-prompts the Symptoms stage after a further pick.
const AddMorePrompt = "Would you like to add any other symptoms?"

var order = []Stage{
	StageInitial,
	StageBodyArea,
	StageSymptoms,
	StageDetails,
	StageDuration,
	StageSeverity,
	StageAdditional,
	StageResults,
}

// Stages returns every stage along the default forward path.
func Stages() []Stage {
	return append([]Stage(nil), order...)
}

// Valid reports whether s belongs to the enum.
func (s Stage) Valid() bool {
	_, ok := table[s]
	return ok
}

func (s Stage) String() string {
	return string(s)
}

// Definition is the static description of a stage.
type Definition struct {
	Stage  Stage
	Prompt string
	// Options is nil when the stage takes free text or when its options
	// come from the catalog (BodyArea, Symptoms).
	Options []string
	Next    Stage

	AcceptsText   bool
	AcceptsOption bool
}

// DurationOptions and SeverityOptions are the static answer sets.
var (
	DurationOptions = []string{"Less than 24 hours", "1-3 days", "3-7 days", "1-2 weeks", "More than 2 weeks"}
	SeverityOptions = []string{"1-3 (Mild)", "4-6 (Moderate)", "7-10 (Severe)"}
)

var table = map[Stage]Definition{
	StageInitial: {
		Stage:       StageInitial,
		Prompt:      "Hello! I'm your health assistant. I can help you understand what might be causing your symptoms. Let's start by determining where your main symptoms are located. How can I help you today?",
		Next:        StageBodyArea,
		AcceptsText: true,
	},
	StageBodyArea: {
		Stage:         StageBodyArea,
		Prompt:        "Which area of your body is giving you the most trouble?",
		Next:          StageSymptoms,
		AcceptsOption: true,
	},
	StageSymptoms: {
		Stage:         StageSymptoms,
		Prompt:        "What symptoms are you experiencing?",
		Next:          StageDetails,
		AcceptsOption: true,
	},
	StageDetails: {
		Stage:       StageDetails,
		Prompt:      "Please provide more details about your symptoms. Are there any specific triggers or patterns you've noticed?",
		Next:        StageDuration,
		AcceptsText: true,
	},
	StageDuration: {
		Stage:         StageDuration,
		Prompt:        "How long have you been experiencing these symptoms?",
		Options:       DurationOptions,
		Next:          StageSeverity,
		AcceptsText:   true,
		AcceptsOption: true,
	},
	StageSeverity: {
		Stage:         StageSeverity,
		Prompt:        "On a scale from 1 to 10, how severe would you rate your symptoms? (1 being barely noticeable, 10 being the worst pain/discomfort imaginable)",
		Options:       SeverityOptions,
		Next:          StageAdditional,
		AcceptsText:   true,
		AcceptsOption: true,
	},
	StageAdditional: {
		Stage:       StageAdditional,
		Prompt:      "Do you have any other symptoms or medical conditions we should be aware of?",
		Next:        StageResults,
		AcceptsText: true,
	},
	StageResults: {
		Stage:         StageResults,
		Prompt:        "Thank you for providing that information. Based on what you've told me, here are some potential conditions that might explain your symptoms:",
		Options:       []string{OptionStartOver},
		Next:          StageInitial,
		AcceptsOption: true,
	},
}

// Lookup returns the definition of s. The Options slice is a copy.
func Lookup(s Stage) (Definition, bool) {
	def, ok := table[s]
	if !ok {
		return Definition{}, false
	}
	def.Options = append([]string(nil), def.Options...)
	return def, true
}

// DefinitionFor is Lookup for stages known to be valid. It panics on a
// value outside the enum.
func DefinitionFor(s Stage) Definition {
	def, ok := Lookup(s)
	if !ok {
		panic(fmt.Sprintf("flow: unknown stage %q", string(s)))
	}
	return def
}
