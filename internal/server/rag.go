package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/youmna-rabie/rag-gateway/internal/rag"
	"github.com/youmna-rabie/rag-gateway/internal/types"
)

const maxBodySize = 1 << 20 // 1 MB

// backendStatusHeader exposes the backend status of a failed forward, since
// every failure is answered with 400.
const backendStatusHeader = "X-Backend-Status"

// handleQuery processes POST /rag/query.
// Pipeline: decode → forward → map result → respond.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	prompt, err := decodePrompt(w, r)
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	res := s.rag.Query(r.Context(), prompt)
	s.logger.Info("query received",
		"content", prompt.Content,
		"question", prompt.Question,
		"request_id", types.RequestIDFromContext(r.Context()),
	)

	if !res.IsSuccess() {
		s.writeFailure(w, r, rag.OpQuery, res.StatusCode(), res.ErrorMessage())
		return
	}

	s.logger.Info("query successful",
		"backend_status", res.StatusCode(),
		"data", res.Data(),
		"request_id", types.RequestIDFromContext(r.Context()),
	)
	writeText(w, http.StatusOK, res.Data())
}

// handleAdd processes POST /rag/add.
func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	prompt, err := decodePrompt(w, r)
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	res := s.rag.Add(r.Context(), prompt)
	s.logger.Info("add received",
		"content", prompt.Content,
		"request_id", types.RequestIDFromContext(r.Context()),
	)

	if !res.IsSuccess() {
		s.writeFailure(w, r, rag.OpAdd, res.StatusCode(), res.ErrorMessage())
		return
	}

	s.logger.Info("add successful", "request_id", types.RequestIDFromContext(r.Context()))
	w.WriteHeader(http.StatusOK)
}

// writeFailure answers a failed forward with 400 and the result's message.
// The backend status travels in a header and the log.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, operation string, status int, message string) {
	s.logger.Error(operation+" failed",
		"error", message,
		"backend_status", status,
		"request_id", types.RequestIDFromContext(r.Context()),
	)
	w.Header().Set(backendStatusHeader, strconv.Itoa(status))
	writeText(w, http.StatusBadRequest, message)
}

// decodePrompt reads a Prompt from the request body. An empty body yields the
// zero Prompt; unknown fields are ignored.
func decodePrompt(w http.ResponseWriter, r *http.Request) (types.Prompt, error) {
	var prompt types.Prompt

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return prompt, fmt.Errorf("request body exceeds 1MB limit")
		}
		return prompt, fmt.Errorf("reading request body: %w", err)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return prompt, nil
	}
	if err := json.Unmarshal(body, &prompt); err != nil {
		return types.Prompt{}, fmt.Errorf("invalid request body: %w", err)
	}
	return prompt, nil
}
