// Package render turns the dialogue message stream into terminal output.
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/wolfman30/symptom-checker/internal/catalog"
	"github.com/wolfman30/symptom-checker/internal/compliance"
	"github.com/wolfman30/symptom-checker/internal/triage"
)

// Options configures a Renderer.
type Options struct {
	// Plain disables styling, badges and markdown.
	Plain bool
	// Markdown renders message bodies through glamour.
	Markdown bool
	// Width is the markdown word-wrap column. Zero means 80.
	Width int
}

// Urgency badge colors.
var (
	HighColor   = lipgloss.Color("#e53935")
	MediumColor = lipgloss.Color("#FB8C00")
	LowColor    = lipgloss.Color("#8BC34A")
)

type styles struct {
	assistant lipgloss.Style
	user      lipgloss.Style
	result    lipgloss.Style
	option    lipgloss.Style
	notice    lipgloss.Style
	footer    lipgloss.Style
	badges    map[catalog.Urgency]lipgloss.Style
}

func newStyles() styles {
	badge := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#ffffff"))
	return styles{
		assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3")),
		user:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		result:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFC107")),
		option:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9e9e9e")),
		notice:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#FFC107")),
		footer:    lipgloss.NewStyle().Faint(true),
		badges: map[catalog.Urgency]lipgloss.Style{
			catalog.UrgencyHigh:   badge.Background(HighColor),
			catalog.UrgencyMedium: badge.Background(MediumColor),
			catalog.UrgencyLow:    badge.Background(LowColor),
		},
	}
}

// Renderer writes messages and prompts to w. It is safe for concurrent use.
type Renderer struct {
	mu     sync.Mutex
	w      io.Writer
	plain  bool
	md     *glamour.TermRenderer
	styles styles
}

// New builds a renderer. Markdown is ignored in plain mode.
func New(w io.Writer, opts Options) (*Renderer, error) {
	r := &Renderer{w: w, plain: opts.Plain, styles: newStyles()}
	if opts.Markdown && !opts.Plain {
		width := opts.Width
		if width <= 0 {
			width = 80
		}
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return nil, fmt.Errorf("render: markdown renderer: %w", err)
		}
		r.md = md
	}
	return r, nil
}

// Handle is a triage.Engine subscriber.
func (r *Renderer) Handle(ev triage.Event) {
	switch ev.Kind {
	case triage.EventReset:
		r.write("\n" + r.rule() + "\n")
	case triage.EventMessage:
		r.write(r.Message(ev.Message))
	}
}

// Message formats one message, its options included.
func (r *Renderer) Message(m triage.Message) string {
	var b strings.Builder
	b.WriteString(r.label(m.Role))
	b.WriteString("\n")
	b.WriteString(r.body(m.Content))
	b.WriteString("\n")
	if len(m.Options) > 0 {
		b.WriteString(r.Options(m.Options))
	}
	return b.String()
}

// Prompt formats the current question for re-display after a rejected input.
func (r *Renderer) Prompt(p triage.Prompt) string {
	var b strings.Builder
	b.WriteString(r.body(p.Text))
	b.WriteString("\n")
	if len(p.Options) > 0 {
		b.WriteString(r.Options(p.Options))
	}
	return b.String()
}

// Options lists options numbered from 1.
func (r *Renderer) Options(options []string) string {
	var b strings.Builder
	for i, opt := range options {
		line := fmt.Sprintf("  %d) %s", i+1, opt)
		if !r.plain {
			line = r.styles.option.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// Notice formats a system line such as a rejected-input hint.
func (r *Renderer) Notice(text string) string {
	if r.plain {
		return "! " + text + "\n"
	}
	return r.styles.notice.Render(text) + "\n"
}

// Footer is the short disclaimer shown under the chat.
func (r *Renderer) Footer() string {
	if r.plain {
		return compliance.DisclaimerShortText + "\n"
	}
	return r.styles.footer.Render(compliance.DisclaimerShortText) + "\n"
}

// Print writes s as is.
func (r *Renderer) Print(s string) {
	r.write(s)
}

// Badges swaps every urgency token in text for a colored badge.
func (r *Renderer) Badges(text string) string {
	if r.plain {
		return text
	}
	for urgency, token := range catalog.UrgencyLabels() {
		if !strings.Contains(text, token) {
			continue
		}
		text = strings.ReplaceAll(text, token, r.styles.badges[urgency].Render(token))
	}
	return text
}

func (r *Renderer) body(content string) string {
	if r.md != nil {
		if out, err := r.md.Render(content); err == nil {
			return r.Badges(strings.TrimRight(out, "\n"))
		}
	}
	return r.Badges(content)
}

func (r *Renderer) label(role triage.Role) string {
	var text string
	var style lipgloss.Style
	switch role {
	case triage.RoleUser:
		text, style = "You", r.styles.user
	case triage.RoleResult:
		text, style = "Results", r.styles.result
	default:
		text, style = "Assistant", r.styles.assistant
	}
	if r.plain {
		return text + ":"
	}
	return style.Render(text + ":")
}

func (r *Renderer) rule() string {
	line := strings.Repeat("-", 40)
	if r.plain {
		return line
	}
	return r.styles.footer.Render(line)
}

func (r *Renderer) write(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = io.WriteString(r.w, s)
}
