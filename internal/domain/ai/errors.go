package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrCompletionFailed indicates the provider call itself failed (network fault, provider error).
var ErrCompletionFailed = errors.New("ai completion failed")

// ErrEmptyCompletion indicates the model returned a null/absent result.
var ErrEmptyCompletion = errors.New("ai returned empty completion")

// ErrMalformedCompletion indicates the model output was not valid JSON.
var ErrMalformedCompletion = errors.New("ai returned malformed completion")
