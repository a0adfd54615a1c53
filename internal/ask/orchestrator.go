package ask

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mohammad-safakhou/askgate/internal/entitlement"
	"github.com/mohammad-safakhou/askgate/internal/plan"
	"github.com/mohammad-safakhou/askgate/internal/ratelimit"
	"github.com/mohammad-safakhou/askgate/internal/telemetry"
	"github.com/mohammad-safakhou/askgate/internal/tool"
	"github.com/mohammad-safakhou/askgate/provider"
)

var orchestratorTracer trace.Tracer = otel.Tracer("askgate/internal/ask/orchestrator")

// contextHeader labels the synthetic block of tool text handed to the
// answer backend.
const contextHeader = "Tool information:"

// Orchestrator sequences one ask workflow per call. The only shared
// mutable state is inside the entitlement cache and rate-limit stores.
type Orchestrator struct {
	logger       *log.Logger
	telemetry    *telemetry.Telemetry
	entitlements *entitlement.Cache
	limiter      *ratelimit.Limiter
	plans        *plan.Resolver
	registry     *tool.Registry
	runner       *tool.Runner
	backend      provider.Backend
}

// NewOrchestrator wires the workflow's collaborators.
func NewOrchestrator(
	logger *log.Logger,
	tele *telemetry.Telemetry,
	entitlements *entitlement.Cache,
	limiter *ratelimit.Limiter,
	plans *plan.Resolver,
	registry *tool.Registry,
	runner *tool.Runner,
	backend provider.Backend,
) *Orchestrator {
	if logger == nil {
		logger = log.New(log.Writer(), "[ORCH] ", log.LstdFlags)
	}
	return &Orchestrator{
		logger:       logger,
		telemetry:    tele,
		entitlements: entitlements,
		limiter:      limiter,
		plans:        plans,
		registry:     registry,
		runner:       runner,
		backend:      backend,
	}
}

// Ask runs the workflow: rate check, entitlement, policy, history
// condensation, tool fan-out, answer generation, result assembly. Any
// returned error is either a structured *Error or an unexpected internal
// failure the caller maps to a generic server error.
func (o *Orchestrator) Ask(ctx context.Context, req Request) (Data, error) {
	startTime := time.Now()
	requestID := uuid.New().String()

	ctx, span := orchestratorTracer.Start(ctx, "ask.workflow",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
			attribute.String("user.id", req.UserID),
		))
	defer span.End()

	event := telemetry.Event{ID: requestID, UserID: req.UserID}
	defer func() {
		event.Latency = time.Since(startTime)
		if o.telemetry != nil {
			o.telemetry.RecordAskEvent(ctx, event)
		}
	}()

	fail := func(err error) (Data, error) {
		event.Success = false
		event.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Data{}, err
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return fail(&Error{Code: CodeBadRequest, Message: "prompt is required"})
	}

	decision := o.limiter.Allow(ctx, req.UserID)
	if !decision.Allowed {
		return fail(&Error{Code: CodeRateLimited, Message: "rate limit exceeded", RetryAfter: decision.RetryAfter})
	}

	ent := o.entitlements.Resolve(ctx, req.UserID)
	if !ent.Active {
		return fail(&Error{Code: CodeSubscriptionRequired, Message: "an active subscription is required"})
	}

	policy := o.plans.Resolve(ent)
	event.Plan = policy.Name
	span.SetAttributes(attribute.String("plan.name", policy.Name))

	condensed := Condense(req.History, policy.HistoryLimit, policy.CharLimit)

	eligible := o.registry.Eligible(policy.Allows)
	outcomes := o.runTools(ctx, eligible, tool.Input{
		Prompt:      prompt,
		History:     condensed,
		TokenBudget: policy.TokenBudget,
	})

	var (
		usedTools     []string
		timedOutTools []string
		erroredTools  []string
		citations     []tool.Citation
		toolTexts     []string
		toolTokens    int64
	)
	for _, outcome := range outcomes {
		switch outcome.Status {
		case tool.StatusSuccess:
			if outcome.Output.Text == "" {
				continue // nothing to contribute; neither used nor errored
			}
			usedTools = append(usedTools, outcome.ToolID)
			toolTexts = append(toolTexts, outcome.Output.Text)
			citations = append(citations, outcome.Output.Citations...)
			toolTokens += outcome.Output.TokensUsed
		case tool.StatusTimeout:
			timedOutTools = append(timedOutTools, outcome.ToolID)
		case tool.StatusError:
			erroredTools = append(erroredTools, outcome.ToolID)
		}
	}
	event.UsedTools = usedTools
	event.TimedOutTools = timedOutTools
	event.ErroredTools = erroredTools

	var contextBlocks []string
	if len(toolTexts) > 0 {
		contextBlocks = []string{contextHeader + "\n\n" + strings.Join(toolTexts, "\n\n")}
	}

	reply, err := o.backend.Chat(ctx, prompt, contextBlocks, policy.TokenBudget)
	if err != nil {
		o.logger.Printf("answer backend failed for request %s: %v", requestID, err)
		return fail(&Error{Code: CodeServerError, Message: "answer generation failed"})
	}

	data := Data{
		Answer:        reply.Text,
		Citations:     citations,
		UsedTools:     usedTools,
		TokensUsed:    reply.TokensUsed + toolTokens,
		LatencyMs:     time.Since(startTime).Milliseconds(),
		Entitlement:   ent,
		TimedOutTools: timedOutTools,
		ErroredTools:  erroredTools,
		Version:       Version,
	}

	event.Success = true
	event.TokensUsed = data.TokensUsed
	span.SetAttributes(
		attribute.Int64("run.tokens", data.TokensUsed),
		attribute.Int("run.tool_count", len(usedTools)),
	)
	span.SetStatus(codes.Ok, "completed")
	o.logger.Printf("Completed ask %s (plan=%s) in %v", requestID, policy.Name, time.Since(startTime))

	return data, nil
}

// runTools fans eligible tools out concurrently, each under its own
// deadline. Outcomes land in an index-addressed slice so the merge order
// is registry order regardless of completion order.
func (o *Orchestrator) runTools(ctx context.Context, eligible []tool.Descriptor, in tool.Input) []tool.Outcome {
	outcomes := make([]tool.Outcome, len(eligible))
	var wg sync.WaitGroup
	for i, d := range eligible {
		wg.Add(1)
		go func(i int, d tool.Descriptor) {
			defer wg.Done()
			outcomes[i] = o.runner.Execute(ctx, d, in)
		}(i, d)
	}
	wg.Wait()
	return outcomes
}
