package assistant

import (
	"fmt"

	"meetassist/app/service/summary"
)

// Request is one summarize-and-suggest call.
type Request struct {
	Text         string
	Role         string
	Context      string
	Focus        string
	CustomFormat string
}

type Result struct {
	Summary    summary.Result `json:"summary"`
	Suggestion string         `json:"suggestion"`
}

// ValidationError rejects a request before any generation is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
