package compliance

import (
	"context"
	"fmt"
	"strings"
)

// DisclaimerLevel represents the verbosity of the disclaimer.
type DisclaimerLevel string

const (
	// DisclaimerShort is the one-line footer shown under the chat.
	DisclaimerShort DisclaimerLevel = "short"
	// DisclaimerFull closes every results message.
	DisclaimerFull DisclaimerLevel = "full"
)

// Disclaimer templates
const (
	DisclaimerShortText = "This is not a medical diagnosis. Always consult a healthcare professional."

	DisclaimerFullText = "**IMPORTANT DISCLAIMER**: This is not a medical diagnosis. The information provided is for educational purposes only and should not replace professional medical advice. If you're concerned about your symptoms, please consult with a healthcare professional."
)

// DisclaimerConfig configures the disclaimer service.
type DisclaimerConfig struct {
	// Level determines which disclaimer template to use.
	Level DisclaimerLevel
	// CustomText overrides the default template.
	CustomText string
}

// DefaultDisclaimerConfig returns the results-message configuration.
func DefaultDisclaimerConfig() DisclaimerConfig {
	return DisclaimerConfig{Level: DisclaimerFull}
}

// DisclaimerService appends the legal disclaimer to result messages.
type DisclaimerService struct {
	audit  *AuditService
	config DisclaimerConfig
}

// NewDisclaimerService creates a new disclaimer service. audit may be nil.
func NewDisclaimerService(audit *AuditService, config DisclaimerConfig) *DisclaimerService {
	if config.Level == "" {
		config.Level = DisclaimerFull
	}
	return &DisclaimerService{
		audit:  audit,
		config: config,
	}
}

// GetDisclaimerText returns the appropriate disclaimer text.
func (s *DisclaimerService) GetDisclaimerText() string {
	if s == nil {
		return DisclaimerFullText
	}
	if s.config.CustomText != "" {
		return s.config.CustomText
	}
	if s.config.Level == DisclaimerShort {
		return DisclaimerShortText
	}
	return DisclaimerFullText
}

// DisclaimerOptions provides context for disclaimer addition.
type DisclaimerOptions struct {
	SessionID string
	MessageID string
}

// AddDisclaimer appends the disclaimer after a blank line and audits the
// send. A message that already carries it is returned trimmed but otherwise
// unchanged; it is still audited since the caller is about to send it.
func (s *DisclaimerService) AddDisclaimer(ctx context.Context, message string, opts DisclaimerOptions) string {
	result := AppendDisclaimer(message, s.GetDisclaimerText())

	if s != nil && s.audit != nil {
		level := s.config.Level
		if s.config.CustomText != "" {
			level = "custom"
		}
		s.audit.LogDisclaimerSent(ctx, opts.SessionID, opts.MessageID, string(level))
	}

	return result
}

// AppendDisclaimer closes body with disclaimer after a blank line. It does
// no auditing and is safe to call from pure code.
func AppendDisclaimer(body, disclaimer string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return disclaimer
	}
	if strings.HasSuffix(body, disclaimer) {
		return body
	}
	return fmt.Sprintf("%s\n\n%s", body, disclaimer)
}
