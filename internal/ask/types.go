// Package ask implements the gated ask workflow: quota checks, history
// condensation, tool fan-out, and the answer-backend call.
package ask

import (
	"time"

	"github.com/mohammad-safakhou/askgate/internal/entitlement"
	"github.com/mohammad-safakhou/askgate/internal/tool"
)

// Version tags the Data shape. Bump on incompatible changes.
const Version = 2

// Role is who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one prior exchange, caller-supplied and read-only.
type ConversationTurn struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Request is the inbound contract from the transport layer.
type Request struct {
	Prompt  string             `json:"prompt"`
	History []ConversationTurn `json:"history"`
	UserID  string             `json:"userId,omitempty"`
	// ToolIDs is accepted for forward compatibility; tool selection is
	// governed by the plan policy and does not consult it.
	ToolIDs   []string `json:"toolIds,omitempty"`
	SessionID string   `json:"sessionId,omitempty"`
	Stream    bool     `json:"stream,omitempty"`
}

// Data is the successful workflow output.
type Data struct {
	Answer        string                  `json:"answer"`
	Citations     []tool.Citation         `json:"citations"`
	UsedTools     []string                `json:"usedTools"`
	TokensUsed    int64                   `json:"tokensUsed,omitempty"`
	LatencyMs     int64                   `json:"latencyMs"`
	Entitlement   entitlement.Entitlement `json:"entitlement"`
	TimedOutTools []string                `json:"timedOutTools"`
	ErroredTools  []string                `json:"erroredTools"`
	Version       int                     `json:"version"`
}

// Result is the sole externally observable output of the workflow: either
// a Data payload or a structured failure, never both.
type Result struct {
	OK           bool   `json:"ok"`
	Data         *Data  `json:"data,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
	Code         Code   `json:"code,omitempty"`
	RetryAfter   int    `json:"retry,omitempty"`
}

// Success wraps a Data payload.
func Success(d Data) Result {
	return Result{OK: true, Data: &d}
}

// Failure maps a workflow error to the structured failure envelope.
// Unrecognized errors become a generic server error so internals do not
// leak to callers.
func Failure(err error) Result {
	if wfErr, ok := AsError(err); ok {
		return Result{OK: false, ErrorMessage: wfErr.Message, Code: wfErr.Code, RetryAfter: wfErr.RetryAfter}
	}
	return Result{OK: false, ErrorMessage: "internal error", Code: CodeServerError}
}
