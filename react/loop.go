package react

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/h9-tec/reagent/gateway"
)

// Result is what a run hands back to the caller: the terminal status, the
// answer when the run finished, the reason when it failed, and always the
// full trace.
type Result struct {
	Status     Status
	Answer     string
	FailReason FailReason
	Trace      *Trace
}

// Loop drives goal-directed runs: it asks the gateway for the next step,
// parses it, dispatches declared tool calls, and feeds observations back
// until the model gives a final answer or a bound trips. A single Loop is
// safe for concurrent runs; each run owns its own memory and trace.
type Loop struct {
	gw       gateway.Gateway
	registry *Registry
	config   Config
	retry    gateway.RetryPolicy
	logger   *slog.Logger
	emitter  *EventEmitter
}

// Option customizes a Loop.
type Option func(*Loop)

// WithLogger routes run logs to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// WithEmitter streams run lifecycle events to the given emitter.
func WithEmitter(emitter *EventEmitter) Option {
	return func(l *Loop) { l.emitter = emitter }
}

// WithRetryPolicy overrides how gateway calls are retried.
func WithRetryPolicy(policy gateway.RetryPolicy) Option {
	return func(l *Loop) { l.retry = policy }
}

// New creates a loop over a gateway and a tool registry. A nil registry
// means no tools: the model can still reason its way to a final answer.
func New(gw gateway.Gateway, registry *Registry, cfg Config, opts ...Option) (*Loop, error) {
	if gw == nil {
		return nil, ErrNilGateway
	}
	if registry == nil {
		registry = NewRegistry()
	}
	l := &Loop{
		gw:       gw,
		registry: registry,
		config:   cfg.normalize(),
		retry:    gateway.DefaultRetryPolicy(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l, nil
}

// Config returns the loop's effective configuration after defaulting.
func (l *Loop) Config() Config { return l.config }

// Run executes one goal to termination. It always returns a non-nil Result
// carrying the full trace; the error is non-nil exactly when the run failed,
// and wraps the terminal reason.
func (l *Loop) Run(ctx context.Context, goal string) (*Result, error) {
	trace := NewTrace(goal)
	memory := NewMemory(l.config.WindowSize)
	detector := newRepetitionDetector(l.config.RepetitionWindow)
	logger := l.logger.With("run_id", trace.ID)

	systemPrompt := l.config.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = BuildSystemPrompt(l.registry)
	}
	memory.Append(gateway.SystemMessage(systemPrompt))
	memory.Append(gateway.UserMessage(goal))

	logger.Info("run started", "goal", goal, "max_iterations", l.config.MaxIterations)
	l.emit(Event{Kind: EventRunStart, RunID: trace.ID, Payload: map[string]any{"goal": goal}, At: now()})

	parseFailures := 0

	for iteration := 1; iteration <= l.config.MaxIterations; iteration++ {
		// 1. Cancellation takes effect before the next model call.
		select {
		case <-ctx.Done():
			return l.fail(logger, trace, FailCancelled, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err()))
		default:
		}

		// 2. Ask the model for the next step.
		l.emit(Event{Kind: EventThinking, RunID: trace.ID, Payload: map[string]any{"iteration": iteration}, At: now()})
		completion, err := l.complete(ctx, memory.WindowView())
		if err != nil {
			if ctx.Err() != nil {
				return l.fail(logger, trace, FailCancelled, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err()))
			}
			return l.fail(logger, trace, FailGateway, fmt.Errorf("model call failed: %w", err))
		}

		// 3. Parse the completion against the step format.
		parsed := ParseStep(completion)

		// 4. A malformed step is fed back as an observation so the model
		// can correct itself, up to the retry budget.
		if parsed.Kind == OutcomeMalformed {
			parseFailures++
			logger.Warn("malformed step", "iteration", iteration, "reason", parsed.Err.Reason, "failures", parseFailures)
			correction := "Error: " + parsed.Err.Error() + ". Respond using the required format."
			trace.Append(Step{Thought: parsed.Thought, Observations: []string{correction}, At: now()})
			if parseFailures > l.config.ParseRetryLimit {
				return l.fail(logger, trace, FailParseBudget,
					fmt.Errorf("%w: %d consecutive malformed steps", ErrParseBudgetExceeded, parseFailures))
			}
			memory.Append(gateway.AssistantMessage(completion))
			memory.Append(gateway.ToolMessage(correction))
			l.emit(Event{Kind: EventParseRetry, RunID: trace.ID, Payload: map[string]any{"reason": parsed.Err.Reason}, At: now()})
			continue
		}
		parseFailures = 0

		// 5. A final answer terminates the run.
		if parsed.Kind == OutcomeFinalAnswer {
			memory.Append(gateway.AssistantMessage(completion))
			trace.Append(Step{Thought: parsed.Thought, IsFinal: true, FinalAnswer: parsed.FinalAnswer, At: now()})
			return l.finish(logger, trace, parsed.FinalAnswer)
		}

		// 6. Refuse to keep executing a stuck run. The step that completes
		// the repetition streak is recorded but never dispatched.
		l.emit(Event{Kind: EventStepParsed, RunID: trace.ID, Payload: map[string]any{"actions": len(parsed.Actions)}, At: now()})
		if detector.observe(parsed.Actions) {
			trace.Append(Step{Thought: parsed.Thought, Actions: parsed.Actions, At: now()})
			l.emit(Event{Kind: EventRepetition, RunID: trace.ID, At: now()})
			return l.fail(logger, trace, FailRepetition,
				fmt.Errorf("%w: last %d action steps identical", ErrRepetitionDetected, l.config.RepetitionWindow))
		}

		// 7. Cancellation also takes effect before dispatch.
		select {
		case <-ctx.Done():
			trace.Append(Step{Thought: parsed.Thought, Actions: parsed.Actions, At: now()})
			return l.fail(logger, trace, FailCancelled, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err()))
		default:
		}

		// 8. Dispatch the declared calls and feed results back.
		observations := l.act(ctx, logger, trace.ID, parsed.Actions)
		memory.Append(gateway.AssistantMessage(completion))
		for _, obs := range observations {
			memory.Append(gateway.ToolMessage(obs))
		}
		trace.Append(Step{Thought: parsed.Thought, Actions: parsed.Actions, Observations: observations, At: now()})

		// 9. Context window awareness check.
		l.warnContextUsage(logger, trace.ID, memory)
	}

	return l.fail(logger, trace, FailIterationBudget,
		fmt.Errorf("%w: %d iterations", ErrIterationBudgetExceeded, l.config.MaxIterations))
}

// complete performs one model call through the retry policy.
func (l *Loop) complete(ctx context.Context, view []gateway.Message) (string, error) {
	return gateway.Retry(ctx, l.retry, func(ctx context.Context) (string, error) {
		return l.gw.Complete(ctx, view)
	})
}

// act dispatches one step's tool calls. Independent calls in a batch run
// concurrently; observations always come back in declaration order.
func (l *Loop) act(ctx context.Context, logger *slog.Logger, runID string, calls []ToolCall) []string {
	observations := make([]string, len(calls))
	if len(calls) == 1 {
		observations[0] = l.invokeOne(ctx, logger, runID, calls[0])
		return observations
	}

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(idx int, c ToolCall) {
			defer wg.Done()
			observations[idx] = l.invokeOne(ctx, logger, runID, c)
		}(i, call)
	}
	wg.Wait()
	return observations
}

// invokeOne executes a single tool call. Every failure mode becomes an
// observation the model can react to; nothing here terminates the run.
func (l *Loop) invokeOne(ctx context.Context, logger *slog.Logger, runID string, call ToolCall) string {
	l.emit(Event{Kind: EventToolCallStart, RunID: runID, Payload: map[string]any{"tool": call.Name}, At: now()})

	output, err := l.registry.Invoke(ctx, call.Name, call.Arguments)
	if err != nil {
		logger.Warn("tool call failed", "tool", call.Name, "error", err)
		l.emit(Event{Kind: EventToolCallEnd, RunID: runID, Payload: map[string]any{"tool": call.Name, "error": err.Error()}, At: now()})
		return "Error: " + err.Error()
	}

	l.emit(Event{Kind: EventToolCallEnd, RunID: runID, Payload: map[string]any{"tool": call.Name, "output": output}, At: now()})
	return truncateObservation(output, l.config.MaxObservationChars)
}

// warnContextUsage warns when the conversation approaches the model's
// context window, for gateways that report one. Token counts are
// approximated at four characters per token.
func (l *Loop) warnContextUsage(logger *slog.Logger, runID string, memory *Memory) {
	sizer, ok := l.gw.(gateway.ContextSizer)
	if !ok {
		return
	}
	window := sizer.ContextWindow()
	if window <= 0 {
		return
	}

	totalChars := 0
	for _, m := range memory.History() {
		totalChars += len(m.Content)
	}
	approxTokens := totalChars / 4
	threshold := int(float64(window) * 0.8)
	if approxTokens > threshold {
		pct := int(float64(approxTokens) / float64(window) * 100)
		logger.Warn("context usage high", "approx_tokens", approxTokens, "context_window", window)
		l.emit(Event{Kind: EventWarning, RunID: runID, Payload: map[string]any{
			"message": fmt.Sprintf("Context usage at ~%d%% of context window", pct),
		}, At: now()})
	}
}

func (l *Loop) finish(logger *slog.Logger, trace *Trace, answer string) (*Result, error) {
	trace.Finish(answer)
	logger.Info("run finished", "steps", trace.Len())
	l.emit(Event{Kind: EventRunEnd, RunID: trace.ID, Payload: map[string]any{"status": string(StatusFinished)}, At: now()})
	return &Result{Status: StatusFinished, Answer: answer, Trace: trace}, nil
}

func (l *Loop) fail(logger *slog.Logger, trace *Trace, reason FailReason, err error) (*Result, error) {
	trace.Fail(reason)
	logger.Warn("run failed", "reason", string(reason), "steps", trace.Len(), "error", err)
	l.emit(Event{Kind: EventRunEnd, RunID: trace.ID, Payload: map[string]any{
		"status": string(StatusFailed),
		"reason": string(reason),
	}, At: now()})
	return &Result{Status: StatusFailed, FailReason: reason, Trace: trace}, err
}

func (l *Loop) emit(event Event) {
	if l.emitter == nil {
		return
	}
	l.emitter.Emit(event)
}
