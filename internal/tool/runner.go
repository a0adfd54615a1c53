package tool

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Status classifies how a tool invocation ended.
type Status int

const (
	StatusSuccess Status = iota
	StatusTimeout
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusTimeout:
		return "timeout"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Outcome is the result of exactly one tool attempt. Exactly one of the
// three statuses is produced per invocation; Output is only meaningful on
// success and Err only on error.
type Outcome struct {
	ToolID  string
	Status  Status
	Output  Output
	Err     error
	Elapsed time.Duration
}

var runnerTracer trace.Tracer = otel.Tracer("askgate/internal/tool/runner")

// Runner executes tool calls with per-call deadlines. Each tool gets
// exactly one attempt per request; there are no retries.
type Runner struct {
	logger *log.Logger
}

// NewRunner builds a runner.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(log.Writer(), "[TOOL] ", log.LstdFlags)
	}
	return &Runner{logger: logger}
}

type runResult struct {
	out Output
	err error
}

// Execute races the tool's capability against its configured deadline.
// When the deadline fires first the call is abandoned: cancellation is
// signalled through the context but the goroutine is not joined, so tools
// must have no observable side effect on discard.
func (r *Runner) Execute(ctx context.Context, d Descriptor, in Input) Outcome {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, span := runnerTracer.Start(ctx, "tool.execute",
		trace.WithAttributes(
			attribute.String("tool.id", d.ID),
			attribute.Int64("tool.timeout_ms", timeout.Milliseconds()),
		))
	defer span.End()

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	ch := make(chan runResult, 1)
	go func() {
		out, err := d.Tool.Run(runCtx, in)
		ch <- runResult{out: out, err: err}
	}()

	select {
	case res := <-ch:
		elapsed := time.Since(start)
		if res.err != nil {
			span.RecordError(res.err)
			span.SetStatus(codes.Error, res.err.Error())
			r.logger.Printf("tool %s failed after %v: %v", d.ID, elapsed, res.err)
			return Outcome{ToolID: d.ID, Status: StatusError, Err: res.err, Elapsed: elapsed}
		}
		span.SetAttributes(attribute.Int("tool.text_len", len(res.out.Text)))
		span.SetStatus(codes.Ok, "completed")
		return Outcome{ToolID: d.ID, Status: StatusSuccess, Output: res.out, Elapsed: elapsed}
	case <-runCtx.Done():
		elapsed := time.Since(start)
		span.SetStatus(codes.Error, "deadline exceeded")
		r.logger.Printf("tool %s timed out after %v", d.ID, elapsed)
		return Outcome{ToolID: d.ID, Status: StatusTimeout, Elapsed: elapsed}
	}
}
