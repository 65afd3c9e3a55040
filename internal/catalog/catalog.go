package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCatalog is wrapped by every validation failure.
var ErrInvalidCatalog = errors.New("catalog: invalid catalog")

// Catalog is an immutable, validated set of body areas and conditions.
// Condition order is the definition order and is significant: the
// predictor breaks score ties with it.
type Catalog struct {
	areas      []BodyArea
	conditions []HealthCondition
	symptoms   []Symptom
	byID       map[string]Symptom
}

// New validates the inputs and builds a catalog. The slices are copied.
func New(areas []BodyArea, conditions []HealthCondition) (*Catalog, error) {
	c := &Catalog{
		areas:      make([]BodyArea, 0, len(areas)),
		conditions: make([]HealthCondition, 0, len(conditions)),
		byID:       make(map[string]Symptom),
	}

	areaIDs := make(map[string]struct{}, len(areas))
	areaNames := make(map[string]struct{}, len(areas))
	for i, area := range areas {
		if strings.TrimSpace(area.ID) == "" || strings.TrimSpace(area.Name) == "" {
			return nil, fmt.Errorf("%w: body area %d needs id and name", ErrInvalidCatalog, i)
		}
		if _, dup := areaIDs[area.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate body area id %q", ErrInvalidCatalog, area.ID)
		}
		if _, dup := areaNames[normalizeName(area.Name)]; dup {
			return nil, fmt.Errorf("%w: duplicate body area name %q", ErrInvalidCatalog, area.Name)
		}
		areaIDs[area.ID] = struct{}{}
		areaNames[normalizeName(area.Name)] = struct{}{}

		for _, s := range area.Symptoms {
			if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.Name) == "" {
				return nil, fmt.Errorf("%w: symptom in area %q needs id and name", ErrInvalidCatalog, area.ID)
			}
			if _, dup := c.byID[s.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate symptom id %q", ErrInvalidCatalog, s.ID)
			}
			c.byID[s.ID] = s
			c.symptoms = append(c.symptoms, s)
		}
		c.areas = append(c.areas, cloneArea(area))
	}

	condIDs := make(map[string]struct{}, len(conditions))
	for i, cond := range conditions {
		if strings.TrimSpace(cond.ID) == "" || strings.TrimSpace(cond.Name) == "" {
			return nil, fmt.Errorf("%w: condition %d needs id and name", ErrInvalidCatalog, i)
		}
		if _, dup := condIDs[cond.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate condition id %q", ErrInvalidCatalog, cond.ID)
		}
		condIDs[cond.ID] = struct{}{}
		if !cond.Urgency.Valid() {
			return nil, fmt.Errorf("%w: condition %q has urgency %q", ErrInvalidCatalog, cond.ID, cond.Urgency)
		}
		for _, id := range cond.Symptoms {
			if _, ok := c.byID[id]; !ok {
				return nil, fmt.Errorf("%w: condition %q references unknown symptom %q", ErrInvalidCatalog, cond.ID, id)
			}
		}
		c.conditions = append(c.conditions, cloneCondition(cond))
	}

	return c, nil
}

// MustNew is like New but panics on error. Reserved for static data.
func MustNew(areas []BodyArea, conditions []HealthCondition) *Catalog {
	c, err := New(areas, conditions)
	if err != nil {
		panic(err)
	}
	return c
}

// BodyAreas returns the areas in definition order.
func (c *Catalog) BodyAreas() []BodyArea {
	out := make([]BodyArea, 0, len(c.areas))
	for _, a := range c.areas {
		out = append(out, cloneArea(a))
	}
	return out
}

// BodyAreaNames returns the display names of all areas in order.
func (c *Catalog) BodyAreaNames() []string {
	names := make([]string, 0, len(c.areas))
	for _, a := range c.areas {
		names = append(names, a.Name)
	}
	return names
}

// Conditions returns the conditions in definition order.
func (c *Catalog) Conditions() []HealthCondition {
	out := make([]HealthCondition, 0, len(c.conditions))
	for _, cond := range c.conditions {
		out = append(out, cloneCondition(cond))
	}
	return out
}

// Symptoms returns the flattened symptom list, area by area.
func (c *Catalog) Symptoms() []Symptom {
	return append([]Symptom(nil), c.symptoms...)
}

// Symptom looks a symptom up by ID.
func (c *Catalog) Symptom(id string) (Symptom, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// FindBodyAreaByName matches an area display name, ignoring case.
func (c *Catalog) FindBodyAreaByName(name string) (BodyArea, bool) {
	for _, a := range c.areas {
		if strings.EqualFold(a.Name, name) {
			return cloneArea(a), true
		}
	}
	return BodyArea{}, false
}

// FindSymptomByName matches a symptom display name, ignoring case, against
// the whole catalog rather than a single area.
func (c *Catalog) FindSymptomByName(name string) (Symptom, bool) {
	for _, s := range c.symptoms {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Symptom{}, false
}
