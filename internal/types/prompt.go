package types

// Prompt is the unit of work sent to the RAG backend.
// Both fields are optional; the backend decides what an empty prompt means.
type Prompt struct {
	Content  string `json:"content"`
	Question string `json:"question"`
}
