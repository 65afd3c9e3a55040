package triage

import (
	"strings"

	"github.com/wolfman30/symptom-checker/internal/catalog"
	"github.com/wolfman30/symptom-checker/internal/flow"
)

// ComputeOptions returns the options the user may pick at the current stage
// of st. Free-text-only stages return nil.
func ComputeOptions(cat *catalog.Catalog, st State) []string {
	switch st.Stage {
	case flow.StageBodyArea:
		if cat == nil {
			return nil
		}
		return cat.BodyAreaNames()
	case flow.StageSymptoms:
		if st.BodyArea == nil {
			return nil
		}
		if len(st.Symptoms) == 0 {
			return st.BodyArea.SymptomNames()
		}
		return remainingSymptoms(st)
	default:
		def, ok := flow.Lookup(st.Stage)
		if !ok || len(def.Options) == 0 {
			return nil
		}
		return def.Options
	}
}

// remainingSymptoms lists the area's unselected symptoms followed by the
// continue sentinel.
func remainingSymptoms(st State) []string {
	var out []string
	if st.BodyArea != nil {
		for _, sym := range st.BodyArea.Symptoms {
			if !st.HasSymptom(sym.ID) {
				out = append(out, sym.Name)
			}
		}
	}
	return append(out, flow.OptionContinue)
}

// promptText is the question shown for the current stage of st.
func promptText(st State) (string, bool) {
	def, ok := flow.Lookup(st.Stage)
	if !ok {
		return "", false
	}
	if st.Stage == flow.StageSymptoms && len(st.Symptoms) > 0 {
		return flow.AddMorePrompt, true
	}
	return def.Prompt, true
}

// matchStatic resolves option against a fixed option list, ignoring case.
func matchStatic(options []string, option string) (string, bool) {
	for _, o := range options {
		if strings.EqualFold(o, option) {
			return o, true
		}
	}
	return "", false
}
