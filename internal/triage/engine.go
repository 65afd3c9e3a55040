package triage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/symptom-checker/internal/catalog"
	"github.com/wolfman30/symptom-checker/internal/compliance"
	"github.com/wolfman30/symptom-checker/internal/flow"
	"github.com/wolfman30/symptom-checker/internal/observability/metrics"
	"github.com/wolfman30/symptom-checker/pkg/logging"
)

var engineTracer = otel.Tracer("symptomchecker.internal.triage")

// EngineOptions configures an Engine. Every field is optional.
type EngineOptions struct {
	Catalog   *catalog.Catalog
	Scheduler Scheduler
	IDs       IDGenerator
	Clock     func() time.Time
	Delays    *Delays
	Logger    *logging.Logger
	Metrics   *metrics.TriageMetrics
	Tracer    trace.Tracer
	Audit     *compliance.AuditService
}

// Engine runs one triage session. Handlers and scheduled callbacks are
// serialized; subscribers are called outside the lock, in log order.
type Engine struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	env        Env
	sched      Scheduler
	delays     Delays
	logger     *logging.Logger
	metrics    *metrics.TriageMetrics
	tracer     trace.Tracer
	audit      *compliance.AuditService
	disclaimer *compliance.DisclaimerService

	sessionID string
	state     State
	queue     []Emission
	timer     Timer
	gen       uint64
	feedback  Feedback
	firing    int

	outbox  []Event
	subs    map[int]func(Event)
	nextSub int
}

// NewEngine builds an engine in the empty Initial state. Call Start to emit
// the greeting.
func NewEngine(opts EngineOptions) *Engine {
	env := Env{Catalog: opts.Catalog, IDs: opts.IDs, Now: opts.Clock}.withDefaults()
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler{}
	}
	delays := DefaultDelays()
	if opts.Delays != nil {
		delays = *opts.Delays
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.Tracer == nil {
		opts.Tracer = engineTracer
	}
	return &Engine{
		env:        env,
		sched:      opts.Scheduler,
		delays:     delays,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		tracer:     opts.Tracer,
		audit:      opts.Audit,
		disclaimer: compliance.NewDisclaimerService(opts.Audit, compliance.DefaultDisclaimerConfig()),
		sessionID:  env.IDs.NewID(),
		state:      NewState(),
		subs:       make(map[int]func(Event)),
	}
}

// Catalog returns the catalog the engine resolves names against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.env.Catalog
}

// SessionID identifies the current session. It changes on every reset.
func (e *Engine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}

// Start clears the session and emits the greeting immediately.
func (e *Engine) Start(ctx context.Context) error {
	return e.dispatch(ctx, "triage.start", Action{Kind: ActionStart})
}

// Reset cancels any pending emission and starts over.
func (e *Engine) Reset(ctx context.Context) error {
	return e.dispatch(ctx, "triage.reset", Action{Kind: ActionReset})
}

// SubmitFreeText answers a free-text stage. At Additional it triggers the
// analysis.
func (e *Engine) SubmitFreeText(ctx context.Context, text string) error {
	return e.dispatch(ctx, "triage.submit_free_text", Action{Kind: ActionFreeText, Text: text})
}

// SubmitOption picks one of the current options.
func (e *Engine) SubmitOption(ctx context.Context, option string) error {
	return e.dispatch(ctx, "triage.submit_option", Action{Kind: ActionOption, Text: option})
}

// SubmitAdditionalAndAnalyze records the additional information and
// schedules the results message.
func (e *Engine) SubmitAdditionalAndAnalyze(ctx context.Context, text string) error {
	return e.dispatch(ctx, "triage.analyze", Action{Kind: ActionAnalyze, Text: text})
}

// State returns a copy of the committed state. Stage may already reflect a
// transition whose prompt is still pending.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Messages returns a copy of the message log.
func (e *Engine) Messages() []Message {
	return e.State().Messages
}

// Pending reports whether a scheduled message has not been emitted yet, or
// was emitted by a timer whose subscribers are still running.
func (e *Engine) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue) > 0 || e.firing > 0
}

// Analyzing reports whether the next scheduled message is the results
// message.
func (e *Engine) Analyzing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue) > 0 && e.queue[0].Delay == DelayAnalysis
}

// CurrentPrompt returns the question and options of the current stage.
func (e *Engine) CurrentPrompt() Prompt {
	e.mu.Lock()
	defer e.mu.Unlock()
	text, _ := promptText(e.state)
	return Prompt{
		Stage:   e.state.Stage,
		Text:    text,
		Options: ComputeOptions(e.env.Catalog, e.state),
	}
}

// Subscribe registers fn for every subsequent event. fn runs outside the
// engine lock and may call back into the engine.
func (e *Engine) Subscribe(fn func(Event)) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

func (e *Engine) dispatch(ctx context.Context, spanName string, act Action) error {
	ctx, span := e.tracer.Start(ctx, spanName)
	defer span.End()

	e.mu.Lock()
	span.SetAttributes(
		attribute.String("triage.session_id", e.sessionID),
		attribute.String("triage.stage", string(e.state.Stage)),
	)
	err := e.dispatchLocked(ctx, act)
	e.mu.Unlock()
	e.flushEvents()

	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (e *Engine) dispatchLocked(ctx context.Context, act Action) error {
	from := e.state.Stage
	restart := act.Kind == ActionStart || act.Kind == ActionReset

	if !restart && len(e.queue) > 0 {
		err := fmt.Errorf("triage: %s at %s: %w", act.Kind, from, ErrBusy)
		e.rejectLocked(ctx, from, act, err)
		return err
	}

	next, emissions, err := Reduce(e.env, e.state, act)
	if err != nil {
		e.rejectLocked(ctx, from, act, err)
		return err
	}

	if from == flow.StageResults && next.Stage == flow.StageInitial {
		restart = true
	}
	if restart {
		e.cancelLocked()
		e.sessionID = e.env.IDs.NewID()
		e.feedback = ""
		if len(e.state.Messages) > 0 {
			e.outbox = append(e.outbox, Event{Kind: EventReset})
		}
		e.logger.InfoContext(ctx, "triage: session started", "session_id", e.sessionID, "action", act.Kind.String())
	}

	e.state = next
	if from != next.Stage {
		e.metrics.ObserveTransition(string(from), string(next.Stage))
		e.logger.DebugContext(ctx, "triage: stage transition", "session_id", e.sessionID, "from", string(from), "to", string(next.Stage))
	}

	e.queue = append(e.queue, emissions...)
	e.pumpLocked(ctx)
	return nil
}

func (e *Engine) rejectLocked(ctx context.Context, stage flow.Stage, act Action, err error) {
	e.metrics.ObserveRejected(string(stage), rejectReason(err))
	if errors.Is(err, ErrUnknownStage) {
		e.logger.ErrorContext(ctx, "triage: state invariant violated", "session_id", e.sessionID, "stage", string(stage), "action", act.Kind.String(), "error", err)
		return
	}
	e.logger.DebugContext(ctx, "triage: input rejected", "session_id", e.sessionID, "stage", string(stage), "action", act.Kind.String(), "error", err)
}

// cancelLocked drops queued emissions. The generation bump keeps a
// callback that already fired from emitting.
func (e *Engine) cancelLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.queue = nil
	e.gen++
}

// pumpLocked emits queued messages until one needs to wait.
func (e *Engine) pumpLocked(ctx context.Context) {
	for len(e.queue) > 0 && e.timer == nil {
		em := e.queue[0]
		if d := e.delayFor(em.Delay); d > 0 {
			gen := e.gen
			cbCtx := context.WithoutCancel(ctx)
			e.timer = e.sched.AfterFunc(d, func() { e.fire(cbCtx, gen) })
			return
		}
		e.queue = e.queue[1:]
		e.emitLocked(ctx, em)
	}
}

func (e *Engine) fire(ctx context.Context, gen uint64) {
	e.mu.Lock()
	if gen != e.gen || len(e.queue) == 0 {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	em := e.queue[0]
	e.queue = e.queue[1:]
	e.emitLocked(ctx, em)
	e.pumpLocked(ctx)
	e.firing++
	e.mu.Unlock()
	e.flushEvents()

	e.mu.Lock()
	e.firing--
	e.mu.Unlock()
}

func (e *Engine) delayFor(d Delay) time.Duration {
	switch d {
	case DelayTyping:
		return e.delays.Typing
	case DelayAnalysis:
		return e.delays.Analysis
	default:
		return 0
	}
}

func (e *Engine) emitLocked(ctx context.Context, em Emission) {
	em.Message.Timestamp = e.env.Now()
	if em.Message.Role == RoleResult {
		em.Message.Content = e.disclaimer.AddDisclaimer(ctx, em.Message.Content, compliance.DisclaimerOptions{
			SessionID: e.sessionID,
			MessageID: em.Message.ID,
		})
	}
	e.state.Messages = append(e.state.Messages, em.Message)
	e.outbox = append(e.outbox, Event{Kind: EventMessage, Message: em.Message.clone()})

	if em.Message.Role != RoleResult {
		return
	}
	conditionIDs := make([]string, 0, len(em.Conditions))
	for _, c := range em.Conditions {
		conditionIDs = append(conditionIDs, c.ID)
	}
	e.metrics.ObserveAnalysis(len(em.Conditions))
	e.audit.LogAnalysisCompleted(ctx, e.sessionID, e.state.SymptomIDs(), conditionIDs)
	e.logger.InfoContext(ctx, "triage: analysis completed", "session_id", e.sessionID, "symptoms", len(e.state.Symptoms), "conditions", len(conditionIDs))
}

// flushEvents delivers the outbox. Only one goroutine delivers at a time; a
// caller that finds delivery in progress leaves its events to that
// goroutine.
func (e *Engine) flushEvents() {
	for {
		if !e.notifyMu.TryLock() {
			return
		}
		for {
			batch, subs := e.takeOutbox()
			if len(batch) == 0 {
				break
			}
			for _, ev := range batch {
				for _, fn := range subs {
					fn(ev)
				}
			}
		}
		e.notifyMu.Unlock()

		e.mu.Lock()
		more := len(e.outbox) > 0
		e.mu.Unlock()
		if !more {
			return
		}
	}
}

func (e *Engine) takeOutbox() ([]Event, []func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.outbox) == 0 {
		return nil, nil
	}
	batch := e.outbox
	e.outbox = nil
	subs := make([]func(Event), 0, len(e.subs))
	for i := 0; i < e.nextSub; i++ {
		if fn, ok := e.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	return batch, subs
}
