package triage

import "errors"

var (
	// ErrInvalidOption is returned when the input does not resolve to
	// anything the current stage accepts. Nothing changes.
	ErrInvalidOption = errors.New("triage: option not recognized for current stage")

	// ErrEmptyInput is returned for blank free text. Nothing changes.
	ErrEmptyInput = errors.New("triage: empty input")

	// ErrUnknownStage means the state holds a stage outside the flow enum.
	// It is an internal invariant violation and never shown to the user.
	ErrUnknownStage = errors.New("triage: unknown stage")

	// ErrBusy is returned while a scheduled message has not been emitted yet.
	ErrBusy = errors.New("triage: a reply is still pending")

	// ErrFeedbackNotAccepted is returned for feedback outside the results
	// stage, repeated feedback, or an unknown rating.
	ErrFeedbackNotAccepted = errors.New("triage: feedback not accepted")
)

// rejectReason maps an input error to a metrics label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidOption):
		return "invalid_option"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.Is(err, ErrUnknownStage):
		return "unknown_stage"
	default:
		return "other"
	}
}
