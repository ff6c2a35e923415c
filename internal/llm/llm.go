package llm

import (
	"context"
	"errors"
)

// SamplingParams carries the completion tuning knobs explicitly rather
// than as scattered literals.
type SamplingParams struct {
	Model            string
	MaxTokens        int
	Temperature      float32
	PresencePenalty  float32
	FrequencyPenalty float32
}

// Request is a single completion call.
type Request struct {
	System string
	User   string
	Params SamplingParams
	// JSONOnly asks the provider to constrain output to a JSON object.
	JSONOnly bool
}

// Client produces completions.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// PlaceholderClient fails every call; used when no provider is configured.
type PlaceholderClient struct{}

func (PlaceholderClient) Complete(ctx context.Context, req Request) (string, error) {
	_ = ctx
	_ = req
	return "", errors.New("llm client not configured")
}
