package generation

import "context"

// Candidate is one alternative returned by the model, split into text parts.
type Candidate struct {
	Parts []string
}

type Response struct {
	Candidates []Candidate
}

// Generator is the raw external generation capability. Implementations make
// exactly one request per call and do not retry.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (*Response, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (*Response, error)

func (f GeneratorFunc) GenerateContent(ctx context.Context, prompt string) (*Response, error) {
	return f(ctx, prompt)
}

// TextResponse builds a single-candidate response holding text.
func TextResponse(text string) *Response {
	return &Response{
		Candidates: []Candidate{{Parts: []string{text}}},
	}
}
