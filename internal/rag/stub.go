package rag

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/youmna-rabie/rag-gateway/internal/result"
	"github.com/youmna-rabie/rag-gateway/internal/types"
)

// StubClient is a Service that logs each prompt and returns canned successes.
// Useful for development without a running backend.
type StubClient struct {
	Logger *slog.Logger
}

// Query logs the prompt and answers with the question echoed back.
func (s *StubClient) Query(ctx context.Context, prompt types.Prompt) result.Result[string] {
	s.Logger.Info("stub query",
		"question", prompt.Question,
		"request_id", types.RequestIDFromContext(ctx),
	)
	return result.Success("stub answer: "+prompt.Question, http.StatusOK)
}

// Add logs the prompt and reports success.
func (s *StubClient) Add(ctx context.Context, prompt types.Prompt) result.Result[result.Empty] {
	s.Logger.Info("stub add",
		"content_length", len(prompt.Content),
		"request_id", types.RequestIDFromContext(ctx),
	)
	return result.SuccessEmpty()
}
