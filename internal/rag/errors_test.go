// ABOUTME: Tests for error kind classification
// ABOUTME: Wrapped sentinels must classify; everything else is internal
package rag

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", fmt.Errorf("%w: bad input", ErrValidation), "validation_error"},
		{"permission", fmt.Errorf("%w: role guest", ErrPermissionDenied), "permission_denied"},
		{"embedding", fmt.Errorf("%w: timeout", ErrEmbeddingUnavailable), "embedding_unavailable"},
		{"synthesis", fmt.Errorf("%w: rate limited", ErrSynthesisUnavailable), "synthesis_unavailable"},
		{"consistency", fmt.Errorf("%w: drift", ErrIndexConsistency), "index_inconsistency"},
		{"deeply wrapped", fmt.Errorf("outer: %w", fmt.Errorf("%w: inner", ErrValidation)), "validation_error"},
		{"unclassified", errors.New("disk full"), "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}
