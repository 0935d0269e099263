// Package retriever selects the context fragments used to answer a question.
package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/papermind/papermind/internal/fragment"
)

// DefaultK bounds how many fragments serve as context for one question.
const DefaultK = 10

// Separator marks fragment boundaries in the joined context so both the
// model and a human reading the prompt can see where fragments meet.
const Separator = "\n---\n"

// Retriever turns a document id into the context string for a question.
// An empty string means the document has no retrievable content.
type Retriever interface {
	Retrieve(ctx context.Context, documentID string) (string, error)
}

// Positional returns the first k fragments in document order. This is
// position-based, not relevance-ranked; a similarity-ranked implementation
// can replace it behind the same interface.
type Positional struct {
	store fragment.Store
	k     int
}

func NewPositional(store fragment.Store, k int) *Positional {
	if k <= 0 {
		k = DefaultK
	}
	return &Positional{store: store, k: k}
}

func (r *Positional) Retrieve(ctx context.Context, documentID string) (string, error) {
	fragments, err := r.store.FetchTop(ctx, documentID, r.k)
	if err != nil {
		return "", fmt.Errorf("fetch fragments: %w", err)
	}
	if len(fragments) == 0 {
		return "", nil
	}

	texts := make([]string, len(fragments))
	for i, f := range fragments {
		texts[i] = f.Text
	}
	return strings.Join(texts, Separator), nil
}
