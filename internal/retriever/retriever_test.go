package retriever

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papermind/papermind/internal/fragment"
)

func TestPositional_JoinsFragmentsInOrder(t *testing.T) {
	ctx := context.Background()
	store := fragment.NewMemoryStore()
	require.NoError(t, store.Store(ctx, []fragment.Fragment{
		{DocumentID: "doc-1", Text: "alpha", Page: 1, Order: 0},
		{DocumentID: "doc-1", Text: "beta", Page: 1, Order: 1},
		{DocumentID: "doc-1", Text: "gamma", Page: 2, Order: 2},
	}))

	got, err := NewPositional(store, 10).Retrieve(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "alpha\n---\nbeta\n---\ngamma", got)
}

func TestPositional_BoundsContextToK(t *testing.T) {
	ctx := context.Background()
	store := fragment.NewMemoryStore()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Store(ctx, []fragment.Fragment{
			{DocumentID: "doc-1", Text: fmt.Sprintf("frag-%d", i), Page: 1, Order: i},
		}))
	}

	got, err := NewPositional(store, 2).Retrieve(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "frag-0\n---\nfrag-1", got)
}

func TestPositional_EmptyDocumentMeansEmptyContext(t *testing.T) {
	got, err := NewPositional(fragment.NewMemoryStore(), 10).Retrieve(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

type embeddedStore = fragment.Store

type brokenStore struct {
	embeddedStore
}

func (brokenStore) FetchTop(context.Context, string, int) ([]fragment.Fragment, error) {
	return nil, fmt.Errorf("%w: connection refused", fragment.ErrUnavailable)
}

func TestPositional_PropagatesStoreFailure(t *testing.T) {
	_, err := NewPositional(brokenStore{}, 10).Retrieve(context.Background(), "doc-1")
	assert.True(t, errors.Is(err, fragment.ErrUnavailable))
}
