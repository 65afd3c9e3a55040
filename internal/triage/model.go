// Package triage implements the scripted symptom-collection dialogue: a pure
// reducer over ConversationState plus an Engine that owns one session,
// schedules the cosmetic delays and publishes the message stream.
package triage

import (
	"time"

	"github.com/wolfman30/symptom-checker/internal/catalog"
	"github.com/wolfman30/symptom-checker/internal/flow"
)

// Role identifies who a message is attributed to.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
	RoleResult    Role = "result"
)

// Message is one entry of the append-only conversation log.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Options   []string  `json:"options,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (m Message) clone() Message {
	if m.Options != nil {
		m.Options = append([]string(nil), m.Options...)
	}
	return m
}

// State is the conversation state of one session. Values returned by the
// reducer and the engine are independent copies.
type State struct {
	Stage    flow.Stage
	BodyArea *catalog.BodyArea
	// Symptoms holds each selected symptom once, in pick order.
	Symptoms []catalog.Symptom
	// FreeTextAnswers keeps the last text submitted per stage. Duration and
	// Severity options are recorded here too.
	FreeTextAnswers map[flow.Stage]string
	Messages        []Message
}

// NewState returns the empty state a session starts from.
func NewState() State {
	return State{
		Stage:           flow.StageInitial,
		FreeTextAnswers: map[flow.Stage]string{},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	if s.BodyArea != nil {
		area := *s.BodyArea
		area.Symptoms = append([]catalog.Symptom(nil), s.BodyArea.Symptoms...)
		out.BodyArea = &area
	}
	out.Symptoms = append([]catalog.Symptom(nil), s.Symptoms...)
	out.FreeTextAnswers = make(map[flow.Stage]string, len(s.FreeTextAnswers))
	for k, v := range s.FreeTextAnswers {
		out.FreeTextAnswers[k] = v
	}
	if s.Messages != nil {
		out.Messages = make([]Message, 0, len(s.Messages))
		for _, m := range s.Messages {
			out.Messages = append(out.Messages, m.clone())
		}
	}
	return out
}

// SymptomIDs returns the IDs of the selected symptoms in pick order.
func (s State) SymptomIDs() []string {
	ids := make([]string, 0, len(s.Symptoms))
	for _, sym := range s.Symptoms {
		ids = append(ids, sym.ID)
	}
	return ids
}

// SymptomNames returns the display names of the selected symptoms.
func (s State) SymptomNames() []string {
	names := make([]string, 0, len(s.Symptoms))
	for _, sym := range s.Symptoms {
		names = append(names, sym.Name)
	}
	return names
}

// HasSymptom reports whether id is already selected.
func (s State) HasSymptom(id string) bool {
	for _, sym := range s.Symptoms {
		if sym.ID == id {
			return true
		}
	}
	return false
}

// Prompt is what the user is currently being asked.
type Prompt struct {
	Stage   flow.Stage
	Text    string
	Options []string
}

// EventKind distinguishes stream events.
type EventKind int

const (
	// EventMessage carries a newly appended message.
	EventMessage EventKind = iota
	// EventReset means the log was cleared; renderers drop what they show.
	EventReset
)

// Event is delivered to subscribers in log order.
type Event struct {
	Kind    EventKind
	Message Message
}
