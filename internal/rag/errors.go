// ABOUTME: Error taxonomy for the RAG engine
// ABOUTME: Sentinel kinds wrapped with context; front doors map kinds to their own representations
package rag

import "errors"

// Sentinel error kinds. Callers classify with errors.Is and map kinds to
// their own external representations; the engine never formats user-facing
// strings beyond kind and message.
var (
	// ErrValidation marks malformed input, rejected before any side effect.
	ErrValidation = errors.New("validation failed")
	// ErrPermissionDenied marks a role insufficient for the operation.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrEmbeddingUnavailable marks an embedding provider failure; any
	// partial writes were rolled back and the caller may retry.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
	// ErrSynthesisUnavailable marks an LLM provider failure during answer
	// synthesis; no index state was mutated.
	ErrSynthesisUnavailable = errors.New("synthesis provider unavailable")
	// ErrIndexConsistency marks a detected mismatch between the document
	// store and the vector index. Logged as an integrity signal; the
	// process keeps running.
	ErrIndexConsistency = errors.New("index consistency violation")
)

// Kind returns a stable machine-readable name for the error's taxonomy
// class, or "internal" for anything unclassified.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrEmbeddingUnavailable):
		return "embedding_unavailable"
	case errors.Is(err, ErrSynthesisUnavailable):
		return "synthesis_unavailable"
	case errors.Is(err, ErrIndexConsistency):
		return "index_inconsistency"
	default:
		return "internal"
	}
}
