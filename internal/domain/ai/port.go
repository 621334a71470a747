package ai

import (
	"context"
	"encoding/json"
)

// CompletionRequest is one schema-constrained prompt for the model.
// Image, when set, is attached as a vision content part.
type CompletionRequest struct {
	System string
	User   string
	Image  *Media
}

type Client interface {
	// Complete runs one call-and-response cycle and returns the model's
	// JSON payload. A null or empty completion is a fatal error for the
	// request; there is no retry at this layer.
	Complete(ctx context.Context, req CompletionRequest) (json.RawMessage, error)

	// Transcribe turns captured audio into text.
	Transcribe(ctx context.Context, audio Media) (string, error)
}
