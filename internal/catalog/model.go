// Package catalog holds the static reference data of the symptom checker:
// body areas, the symptom taxonomy and the condition catalog.
package catalog

import "strings"

// Urgency is the suggested response tier attached to a condition.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Urgency tokens embedded in result text. Renderers match these verbatim.
const (
	UrgencyLabelLow    = "🟢 Low - Monitor symptoms and rest"
	UrgencyLabelMedium = "🟠 Medium - Consult a doctor soon"
	UrgencyLabelHigh   = "🔴 High - Seek immediate medical attention"
)

// Valid reports whether u is one of the three tiers.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// Label returns the fixed urgency token for u. Unknown values map to the
// low tier token, matching how the catalog validator rejects them upfront.
func (u Urgency) Label() string {
	switch u {
	case UrgencyHigh:
		return UrgencyLabelHigh
	case UrgencyMedium:
		return UrgencyLabelMedium
	default:
		return UrgencyLabelLow
	}
}

// UrgencyLabels returns every token keyed by tier.
func UrgencyLabels() map[Urgency]string {
	return map[Urgency]string{
		UrgencyHigh:   UrgencyLabelHigh,
		UrgencyMedium: UrgencyLabelMedium,
		UrgencyLow:    UrgencyLabelLow,
	}
}

// Symptom is a single selectable symptom. IDs are unique catalog-wide.
type Symptom struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// BodyArea groups related symptoms.
type BodyArea struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Symptoms []Symptom `json:"symptoms" yaml:"symptoms"`
}

// SymptomNames returns the display names of the area's symptoms in order.
func (a BodyArea) SymptomNames() []string {
	names := make([]string, 0, len(a.Symptoms))
	for _, s := range a.Symptoms {
		names = append(names, s.Name)
	}
	return names
}

// HasSymptom reports whether id belongs to this area.
func (a BodyArea) HasSymptom(id string) bool {
	for _, s := range a.Symptoms {
		if s.ID == id {
			return true
		}
	}
	return false
}

// HealthCondition is a candidate condition with the symptom IDs it lists.
type HealthCondition struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Symptoms    []string `json:"symptoms" yaml:"symptoms"`
	Urgency     Urgency  `json:"urgency" yaml:"urgency"`
}

// Lists reports whether the condition includes symptom id.
func (c HealthCondition) Lists(id string) bool {
	for _, s := range c.Symptoms {
		if s == id {
			return true
		}
	}
	return false
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func cloneArea(a BodyArea) BodyArea {
	a.Symptoms = append([]Symptom(nil), a.Symptoms...)
	return a
}

func cloneCondition(c HealthCondition) HealthCondition {
	c.Symptoms = append([]string(nil), c.Symptoms...)
	return c
}
