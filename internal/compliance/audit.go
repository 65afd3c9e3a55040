// Package compliance carries the informational-use disclaimers and the
// audit trail of compliance-relevant events. Audit events go to the
// structured log only and are never persisted.
package compliance

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/symptom-checker/pkg/logging"
)

// AuditEventType represents the type of compliance event.
type AuditEventType string

const (
	// EventDisclaimerSent is logged when a disclaimer is added to a message.
	EventDisclaimerSent AuditEventType = "compliance.disclaimer_sent"
	// EventAnalysisCompleted is logged when a results message is produced.
	EventAnalysisCompleted AuditEventType = "compliance.analysis_completed"
	// EventFeedbackReceived is logged when the user rates the results.
	EventFeedbackReceived AuditEventType = "compliance.feedback_received"
)

// ErrMissingEventType is returned by LogEvent for an event without a type.
var ErrMissingEventType = errors.New("compliance: audit event type required")

// AuditEvent represents an immutable compliance audit record.
type AuditEvent struct {
	ID        string          `json:"id"`
	EventType AuditEventType  `json:"event_type"`
	SessionID string          `json:"session_id,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// AuditDetails contains event-specific details.
type AuditDetails struct {
	// For disclaimer sent
	MessageID       string `json:"message_id,omitempty"`
	DisclaimerLevel string `json:"disclaimer_level,omitempty"`

	// For analysis completed
	SymptomIDs   []string `json:"symptom_ids,omitempty"`
	ConditionIDs []string `json:"condition_ids,omitempty"`

	// For feedback received
	Feedback string   `json:"feedback,omitempty"`
	Symptoms []string `json:"symptoms,omitempty"`
	BodyArea string   `json:"body_area,omitempty"`
}

// AuditService writes compliance audit events to the structured log.
type AuditService struct {
	logger *logging.Logger
	now    func() time.Time
}

// NewAuditService creates a new audit service.
func NewAuditService(logger *logging.Logger) *AuditService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuditService{logger: logger, now: time.Now}
}

// LogEvent records a compliance audit event.
func (s *AuditService) LogEvent(ctx context.Context, event AuditEvent) error {
	if s == nil {
		return nil
	}
	if event.EventType == "" {
		return ErrMissingEventType
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now().UTC()
	}

	s.logger.InfoContext(ctx, "compliance: audit event",
		"audit_id", event.ID,
		"event_type", string(event.EventType),
		"session_id", event.SessionID,
		"details", event.Details,
		"created_at", event.CreatedAt.Format(time.RFC3339Nano),
	)
	return nil
}

// LogDisclaimerSent logs when a disclaimer is added to a message.
func (s *AuditService) LogDisclaimerSent(ctx context.Context, sessionID, messageID, level string) {
	s.logDetails(ctx, EventDisclaimerSent, sessionID, AuditDetails{
		MessageID:       messageID,
		DisclaimerLevel: level,
	})
}

// LogAnalysisCompleted logs the inputs and outputs of one prediction.
func (s *AuditService) LogAnalysisCompleted(ctx context.Context, sessionID string, symptomIDs, conditionIDs []string) {
	s.logDetails(ctx, EventAnalysisCompleted, sessionID, AuditDetails{
		SymptomIDs:   symptomIDs,
		ConditionIDs: conditionIDs,
	})
}

// LogFeedback logs the user's rating of the results together with what
// they selected.
func (s *AuditService) LogFeedback(ctx context.Context, sessionID, feedback, bodyArea string, symptoms []string) {
	s.logDetails(ctx, EventFeedbackReceived, sessionID, AuditDetails{
		Feedback: feedback,
		Symptoms: symptoms,
		BodyArea: bodyArea,
	})
}

func (s *AuditService) logDetails(ctx context.Context, eventType AuditEventType, sessionID string, details AuditDetails) {
	if s == nil {
		return
	}
	detailsJSON, _ := json.Marshal(details)
	_ = s.LogEvent(ctx, AuditEvent{
		EventType: eventType,
		SessionID: sessionID,
		Details:   detailsJSON,
	})
}
