package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wolfman30/symptom-checker/internal/render"
	"github.com/wolfman30/symptom-checker/internal/triage"
	"github.com/wolfman30/symptom-checker/internal/voice"
)

type chatOptions struct {
	plain     bool
	voiceFeed string
}

func newChatCmd(a *app) *cobra.Command {
	opts := &chatOptions{}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive symptom check",
		Long: `Start an interactive symptom check in the terminal.

Answer with an option number, the option text, or free text where asked.
Commands: /reset, /helpful, /unhelpful, /help, /quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runChat(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), *opts)
		},
	}
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "disable colors, badges and markdown")
	cmd.Flags().StringVar(&opts.voiceFeed, "voice-feed", "", "file of transcribed utterances, one per line, fed in as typed input")
	return cmd
}

type line struct {
	text  string
	voice bool
}

func (a *app) runChat(ctx context.Context, in io.Reader, out io.Writer, opts chatOptions) error {
	view, err := render.New(out, render.Options{Plain: opts.plain, Markdown: a.cfg.MarkdownRendering})
	if err != nil {
		return err
	}

	engine := triage.NewEngine(triage.EngineOptions{
		Catalog: a.catalog,
		Delays:  &triage.Delays{Typing: a.cfg.TypingDelay, Analysis: a.cfg.AnalysisDelay},
		Logger:  a.logger,
		Metrics: a.metrics,
		Audit:   a.audit,
	})
	cancelSub := engine.Subscribe(view.Handle)
	defer cancelSub()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan line)
	feed := func(voiced bool) func(string) {
		return func(s string) {
			select {
			case lines <- line{text: s, voice: voiced}:
			case <-ctx.Done():
			}
		}
	}

	stdin := voice.NewLineProvider(in, a.logger)
	stdin.OnTranscript(feed(false))
	if err := stdin.Start(ctx); err != nil {
		return err
	}
	// Providers block on lines until ctx ends, so cancel before stopping.
	defer func() {
		cancel()
		_ = stdin.Stop()
	}()

	if opts.voiceFeed != "" {
		f, err := os.Open(opts.voiceFeed)
		if err != nil {
			return fmt.Errorf("open voice feed: %w", err)
		}
		var provider voice.InputProvider = voice.NewLineProvider(f, a.logger)
		provider.OnTranscript(feed(true))
		if err := provider.Start(ctx); err != nil {
			return err
		}
		defer func() {
			cancel()
			_ = provider.Stop()
		}()
	}

	view.Print(view.Footer())
	if err := engine.Start(ctx); err != nil {
		return err
	}

	for {
		if err := waitIdle(ctx, engine); err != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-stdin.Done():
			return nil
		case l := <-lines:
			if l.voice {
				view.Print(view.Notice(fmt.Sprintf("Voice recognized: %q", l.text)))
			}
			quit, err := a.handleLine(ctx, engine, view, l.text)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

// handleLine applies one line of input. It reports whether the user quit.
func (a *app) handleLine(ctx context.Context, engine *triage.Engine, view *render.Renderer, text string) (bool, error) {
	in := resolveInput(engine.CurrentPrompt(), text)
	logged := len(engine.Messages())

	var err error
	switch in.kind {
	case inputCommand:
		switch in.value {
		case cmdQuit:
			return true, nil
		case cmdReset:
			err = engine.Reset(ctx)
		case cmdHelpful, cmdUnhelpful:
			fb := triage.FeedbackHelpful
			if in.value == cmdUnhelpful {
				fb = triage.FeedbackUnhelpful
			}
			if err = engine.SubmitFeedback(ctx, fb); err == nil {
				view.Print(view.Notice("Thank you for your feedback. " + fb.Acknowledgement()))
			}
		case cmdHelp:
			view.Print(view.Notice("Commands: /reset, /helpful, /unhelpful, /help, /quit"))
		default:
			view.Print(view.Notice(fmt.Sprintf("Unknown command %s. Type /help for the list.", in.value)))
		}
	case inputOption:
		err = engine.SubmitOption(ctx, in.value)
	default:
		err = engine.SubmitFreeText(ctx, in.value)
	}

	switch {
	case err == nil:
		if in.kind != inputCommand && !engine.Pending() && !promptEmitted(engine.Messages(), logged) {
			// The options changed without a new question, so the list on
			// screen no longer matches the numbering.
			view.Print(view.Prompt(engine.CurrentPrompt()))
		}
		if engine.Analyzing() {
			view.Print(view.Notice("Analyzing your symptoms..."))
		}
	case errors.Is(err, triage.ErrUnknownStage):
		return true, err
	case errors.Is(err, triage.ErrInvalidOption), errors.Is(err, triage.ErrEmptyInput):
		view.Print(view.Notice("Sorry, I didn't get that."))
		view.Print(view.Prompt(engine.CurrentPrompt()))
	case errors.Is(err, triage.ErrBusy):
		view.Print(view.Notice("One moment, still working on the last answer."))
	case errors.Is(err, triage.ErrFeedbackNotAccepted):
		view.Print(view.Notice("Feedback can be given once, after the results are shown."))
	default:
		return true, err
	}
	return false, nil
}

// promptEmitted reports whether an assistant or result message was logged at
// or after index from. A shorter log means the session restarted.
func promptEmitted(msgs []triage.Message, from int) bool {
	if from > len(msgs) {
		return true
	}
	for _, m := range msgs[from:] {
		if m.Role != triage.RoleUser {
			return true
		}
	}
	return false
}

// waitIdle blocks until the engine has no scheduled message left.
func waitIdle(ctx context.Context, engine *triage.Engine) error {
	if !engine.Pending() {
		return nil
	}
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !engine.Pending() {
				return nil
			}
		}
	}
}
