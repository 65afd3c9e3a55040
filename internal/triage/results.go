package triage

import (
	"fmt"
	"strings"

	"github.com/wolfman30/symptom-checker/internal/catalog"
	"github.com/wolfman30/symptom-checker/internal/compliance"
)

const (
	resultsIntro            = "Based on the information you've provided, here are some possible conditions that might explain your symptoms:"
	resultsInsufficientData = "Based on the information you've provided, I don't have enough data to suggest specific conditions. Your symptoms could be related to many different issues."
)

// FormatResults renders the content of the results message. Every urgency
// line carries the verbatim catalog token so renderers can badge it.
func FormatResults(conditions []catalog.HealthCondition) string {
	if len(conditions) == 0 {
		return compliance.AppendDisclaimer(resultsInsufficientData, compliance.DisclaimerFullText)
	}

	var b strings.Builder
	b.WriteString(resultsIntro)
	b.WriteString("\n\n")
	for i, cond := range conditions {
		fmt.Fprintf(&b, "**%d. %s** - %s\n", i+1, cond.Name, cond.Description)
		fmt.Fprintf(&b, "**Urgency**: %s\n\n", cond.Urgency.Label())
	}
	return compliance.AppendDisclaimer(b.String(), compliance.DisclaimerFullText)
}
