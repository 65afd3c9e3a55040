package triage

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/symptom-checker/internal/flow"
)

// Feedback is the user's rating of the results.
type Feedback string

const (
	FeedbackHelpful   Feedback = "helpful"
	FeedbackUnhelpful Feedback = "unhelpful"
)

// Valid reports whether f is a known rating.
func (f Feedback) Valid() bool {
	return f == FeedbackHelpful || f == FeedbackUnhelpful
}

// Acknowledgement is the thank-you line shown after a rating.
func (f Feedback) Acknowledgement() string {
	if f == FeedbackHelpful {
		return "We're glad our analysis was helpful for you."
	}
	return "We appreciate your feedback and will work on improving our predictions."
}

// SubmitFeedback rates the results once per session. It is only accepted
// at Results once the results message is shown, and it never changes the
// conversation state.
func (e *Engine) SubmitFeedback(ctx context.Context, fb Feedback) error {
	ctx, span := e.tracer.Start(ctx, "triage.submit_feedback")
	defer span.End()
	span.SetAttributes(attribute.String("triage.feedback", string(fb)))

	e.mu.Lock()
	defer e.mu.Unlock()

	var reason string
	switch {
	case !fb.Valid():
		reason = "unknown rating"
	case e.state.Stage != flow.StageResults || len(e.queue) > 0:
		reason = "results not shown"
	case e.feedback != "":
		reason = "already rated"
	}
	if reason != "" {
		err := fmt.Errorf("triage: feedback %q: %s: %w", string(fb), reason, ErrFeedbackNotAccepted)
		e.logger.DebugContext(ctx, "triage: feedback rejected", "session_id", e.sessionID, "error", err)
		span.RecordError(err)
		return err
	}

	e.feedback = fb
	bodyArea := ""
	if e.state.BodyArea != nil {
		bodyArea = e.state.BodyArea.Name
	}
	e.metrics.ObserveFeedback(string(fb))
	e.audit.LogFeedback(ctx, e.sessionID, string(fb), bodyArea, e.state.SymptomNames())
	return nil
}
