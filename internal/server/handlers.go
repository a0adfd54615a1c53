package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/askgate/internal/ask"
	"github.com/mohammad-safakhou/askgate/internal/telemetry"
)

// AskHandler exposes the ask workflow over HTTP.
type AskHandler struct {
	Orchestrator *ask.Orchestrator
	Telemetry    *telemetry.Telemetry
}

// Register mounts the ask routes on a group.
func (h *AskHandler) Register(g *echo.Group) {
	g.POST("/ask", h.handleAsk)
}

// handleAsk binds the request, runs the workflow, and maps the outcome to
// the response envelope. Every response body is an ask.Result; the HTTP
// status mirrors the failure code.
func (h *AskHandler) handleAsk(c echo.Context) error {
	var req ask.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ask.Failure(&ask.Error{
			Code:    ask.CodeBadRequest,
			Message: "invalid request body",
		}))
	}

	data, err := h.Orchestrator.Ask(c.Request().Context(), req)
	if err != nil {
		result := ask.Failure(err)
		if result.Code == ask.CodeServerError && h.Telemetry != nil {
			h.Telemetry.Alert(c.Request().Context(), fmt.Sprintf("ask workflow failed: %v", err))
		}
		status := statusForCode(result.Code)
		if result.RetryAfter > 0 {
			c.Response().Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
		}
		return c.JSON(status, result)
	}

	return c.JSON(http.StatusOK, ask.Success(data))
}

func statusForCode(code ask.Code) int {
	switch code {
	case ask.CodeBadRequest:
		return http.StatusBadRequest
	case ask.CodeSubscriptionRequired:
		return http.StatusPaymentRequired
	case ask.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
