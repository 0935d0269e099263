// Package pipeline sequences the two end-to-end workflows: ingesting a
// document and answering a question about it.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/papermind/papermind/internal/chunker"
	"github.com/papermind/papermind/internal/extractor"
	"github.com/papermind/papermind/internal/fragment"
	"github.com/papermind/papermind/internal/llm"
	"github.com/papermind/papermind/internal/prompt"
	"github.com/papermind/papermind/internal/retriever"
)

// NoContentAnswer is returned for questions about documents with no stored
// fragments. A defined success, not an error, and it never reaches the
// generation backend.
const NoContentAnswer = "No relevant content found in this document."

// Config carries the chunk geometry applied during ingestion.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
}

// IngestResult reports a completed ingestion.
type IngestResult struct {
	DocumentID string
	Pages      int
}

// Orchestrator wires extractor, chunker, store, retriever and generator.
// It is stateless; one instance serves all concurrent requests.
type Orchestrator struct {
	extractor extractor.Extractor
	store     fragment.Store
	retriever retriever.Retriever
	generator llm.Generator
	log       *slog.Logger

	chunkSize    int
	chunkOverlap int
}

func NewOrchestrator(ex extractor.Extractor, store fragment.Store, ret retriever.Retriever, gen llm.Generator, log *slog.Logger, cfg Config) *Orchestrator {
	// Overlap 0 is valid geometry, so defaults apply only when no size was
	// given at all.
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = chunker.DefaultSize
		cfg.ChunkOverlap = chunker.DefaultOverlap
	}
	return &Orchestrator{
		extractor:    ex,
		store:        store,
		retriever:    ret,
		generator:    gen,
		log:          log,
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
	}
}

// Ingest extracts a document, chunks every page and persists the fragments
// under a freshly generated document id. Fragment order is monotonic across
// the whole document, not per page, so retrieval reconstructs the page
// sequence. On a store failure the already-committed fragments are rolled
// back and the ingestion reports failure.
func (o *Orchestrator) Ingest(ctx context.Context, filename string, data []byte) (IngestResult, error) {
	documentID := uuid.NewString()

	pages, err := o.extractor.Extract(data)
	if err != nil {
		return IngestResult{}, fmt.Errorf("extract %q: %w", filename, err)
	}

	order := 0
	committed := 0
	for _, page := range pages {
		chunks, err := chunker.Chunk(page.Text, o.chunkSize, o.chunkOverlap)
		if err != nil {
			return IngestResult{}, fmt.Errorf("chunk page %d of %q: %w", page.Number, filename, err)
		}

		fragments := make([]fragment.Fragment, len(chunks))
		for i, text := range chunks {
			fragments[i] = fragment.Fragment{
				DocumentID: documentID,
				Text:       text,
				Source:     filename,
				Page:       page.Number,
				Order:      order,
			}
			order++
		}

		if err := o.store.Store(ctx, fragments); err != nil {
			o.log.Error("fragment write failed, rolling back document",
				"document_id", documentID,
				"source", filename,
				"page", page.Number,
				"pages_committed", committed,
				"error", err)
			o.rollback(documentID)
			return IngestResult{}, fmt.Errorf("store fragments for page %d of %q: %w", page.Number, filename, err)
		}
		committed++
	}

	o.log.Info("document ingested",
		"document_id", documentID,
		"source", filename,
		"pages", len(pages),
		"fragments", order)

	return IngestResult{DocumentID: documentID, Pages: len(pages)}, nil
}

// rollback removes fragments already committed for a failed ingestion so no
// partial document is left queryable. Runs on a fresh context because the
// request context may already be cancelled.
func (o *Orchestrator) rollback(documentID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := o.store.Delete(ctx, documentID); err != nil {
		o.log.Error("rollback failed, orphaned fragments remain",
			"document_id", documentID,
			"error", err)
	}
}

// Ask retrieves context for the document and grounds a generated answer in
// it. An empty context short-circuits to NoContentAnswer without calling the
// generation backend. Generation failures surface to the caller unretried.
func (o *Orchestrator) Ask(ctx context.Context, question, documentID string) (string, error) {
	contextText, err := o.retriever.Retrieve(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("retrieve context for %s: %w", documentID, err)
	}
	if contextText == "" {
		return NoContentAnswer, nil
	}

	answer, err := o.generator.Generate(ctx, prompt.Build(contextText, question))
	if err != nil {
		return "", fmt.Errorf("generate answer for %s: %w", documentID, err)
	}
	return strings.TrimSpace(answer), nil
}
