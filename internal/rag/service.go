package rag

import (
	"context"
	"time"

	"github.com/youmna-rabie/rag-gateway/internal/result"
	"github.com/youmna-rabie/rag-gateway/internal/types"
)

// Operation names, used for backend paths, logs and metrics.
const (
	OpQuery = "query"
	OpAdd   = "add"
)

// Service forwards prompts to a RAG backend. Implementations never return
// errors or panic for backend faults; every outcome is a Result.
type Service interface {
	Query(ctx context.Context, prompt types.Prompt) result.Result[string]
	Add(ctx context.Context, prompt types.Prompt) result.Result[result.Empty]
}

// Observer is notified once per forwarding call.
type Observer interface {
	ObserveForward(operation string, success bool, status int, elapsed time.Duration)
}
