package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"meetassist/app/service/assistant"
	"meetassist/app/service/generation"
	"meetassist/app/service/history"
	"meetassist/app/util/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type summarizeResponse struct {
	Error      string `json:"error,omitempty"`
	Field      string `json:"field,omitempty"`
	Summary    any    `json:"summary"`
	Suggestion string `json:"suggestion"`
}

type historyResponse struct {
	History []history.Entry `json:"history"`
}

// params reads request fields from the JSON body and falls back to the query
// string for fields the body does not carry. A JSON null counts as empty.
type params struct {
	body map[string]any
	c    *fiber.Ctx
}

func newParams(c *fiber.Ctx) params {
	p := params{c: c}
	if len(c.Body()) > 0 {
		// Invalid JSON is treated like an absent body.
		_ = json.Unmarshal(c.Body(), &p.body)
	}
	return p
}

func (p params) get(names ...string) string {
	for _, name := range names {
		if v, ok := p.body[name]; ok {
			switch value := v.(type) {
			case nil:
				return ""
			case string:
				return value
			default:
				return fmt.Sprint(value)
			}
		}
	}

	for _, name := range names {
		if v := p.c.Query(name); v != "" {
			return v
		}
	}

	return ""
}

func (s *Server) handleSummarize(c *fiber.Ctx) error {
	ctx := c.UserContext()
	requestID := uuid.NewString()
	start := time.Now()

	p := newParams(c)
	req := assistant.Request{
		Text:         p.get("text"),
		Role:         p.get("role"),
		Context:      p.get("context"),
		Focus:        p.get("focus"),
		CustomFormat: p.get("custom", "customFormat"),
	}

	result, err := s.assistant.Run(ctx, req)
	if err != nil {
		status, resp := failure(err)
		metrics.Requests.WithLabelValues(fmt.Sprint(status)).Inc()

		logLevel := slog.LevelWarn
		if status >= fiber.StatusInternalServerError {
			logLevel = slog.LevelError
		}
		slog.Log(ctx, logLevel, "Summarize failed",
			"request_id", requestID,
			"status", status,
			"error", err,
		)

		return c.Status(status).JSON(resp)
	}

	metrics.Requests.WithLabelValues(fmt.Sprint(fiber.StatusOK)).Inc()
	slog.Info("Summarize handled",
		"request_id", requestID,
		"role", req.Role,
		"duration", time.Since(start),
	)

	return c.JSON(summarizeResponse{
		Summary:    result.Summary,
		Suggestion: result.Suggestion,
	})
}

// failure maps the error taxonomy onto HTTP statuses.
func failure(err error) (int, summarizeResponse) {
	resp := summarizeResponse{
		Error:   err.Error(),
		Summary: struct{}{},
	}

	var vErr *assistant.ValidationError
	switch {
	case errors.As(err, &vErr):
		resp.Error = vErr.Message
		resp.Field = vErr.Field
		return fiber.StatusBadRequest, resp
	case errors.Is(err, generation.ErrRetryExhausted):
		resp.Error = generation.ErrRetryExhausted.Error()
		return fiber.StatusServiceUnavailable, resp
	case generation.IsFatal(err):
		return fiber.StatusBadGateway, resp
	default:
		return fiber.StatusInternalServerError, resp
	}
}

func (s *Server) handleSaveSettings(c *fiber.Ctx) error {
	var entry history.Entry
	if err := c.BodyParser(&entry); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid settings: %v", err))
	}

	s.history.Save(entry)

	return c.Redirect("/assistant?"+entryQuery(entry).Encode(), fiber.StatusSeeOther)
}

func (s *Server) handleListSettings(c *fiber.Ctx) error {
	return c.JSON(historyResponse{History: s.history.List()})
}

// handleAssistant hands the chosen settings back to the caller.
func (s *Server) handleAssistant(c *fiber.Ctx) error {
	var entry history.Entry
	if err := c.QueryParser(&entry); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid settings: %v", err))
	}

	return c.JSON(entry)
}

func entryQuery(e history.Entry) url.Values {
	values := url.Values{}
	values.Set("role", e.Role)
	values.Set("context", e.Context)
	values.Set("focus", e.Focus)
	values.Set("custom", e.CustomFormat)
	return values
}
