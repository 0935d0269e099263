package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papermind/papermind/internal/config"
	"github.com/papermind/papermind/internal/extractor"
	"github.com/papermind/papermind/internal/fragment"
	"github.com/papermind/papermind/internal/llm"
	"github.com/papermind/papermind/internal/pipeline"
	"github.com/papermind/papermind/internal/retriever"
)

type stubGenerator struct {
	answer string
	err    error
}

func (g *stubGenerator) Generate(context.Context, string) (string, error) {
	return g.answer, g.err
}

func newTestServer(t *testing.T, store fragment.Store, gen llm.Generator) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(
		extractor.NewPDF(),
		store,
		retriever.NewPositional(store, 10),
		gen,
		log,
		pipeline.Config{},
	)
	return NewServer(orch, log, config.Config{MaxUploadBytes: 1 << 20})
}

func multipartUpload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-pdf", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, fragment.NewMemoryStore(), &stubGenerator{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestUploadPDF_RejectsWrongFileType(t *testing.T) {
	srv := newTestServer(t, fragment.NewMemoryStore(), &stubGenerator{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, multipartUpload(t, "notes.txt", []byte("plain text")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, kindUnsupportedFileType, decodeBody(t, rec)["kind"])
}

func TestUploadPDF_RejectsMissingFile(t *testing.T) {
	srv := newTestServer(t, fragment.NewMemoryStore(), &stubGenerator{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("unrelated", "value"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/upload-pdf", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, kindBadRequest, decodeBody(t, rec)["kind"])
}

// Oversized uploads must get the same 413/file_too_large answer whether
// they trip the request-body cap during form parsing or the per-file check
// after it.
func TestUploadPDF_OversizedUploadIs413(t *testing.T) {
	cases := []struct {
		name        string
		contentSize int
	}{
		{name: "trips request body cap", contentSize: 2 << 20},
		{name: "trips per-file limit", contentSize: 4 << 10},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := newTestServer(t, fragment.NewMemoryStore(), &stubGenerator{})
			srv.cfg.MaxUploadBytes = 1024

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, multipartUpload(t, "big.pdf", bytes.Repeat([]byte("a"), c.contentSize)))

			require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
			assert.Equal(t, kindFileTooLarge, decodeBody(t, rec)["kind"])
		})
	}
}

func TestUploadPDF_UnreadableDocumentIs400(t *testing.T) {
	srv := newTestServer(t, fragment.NewMemoryStore(), &stubGenerator{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, multipartUpload(t, "broken.pdf", []byte("not a real pdf")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, kindUnreadableDocument, decodeBody(t, rec)["kind"])
}

type embeddedStore = fragment.Store

type downStore struct {
	embeddedStore
}

func (downStore) FetchTop(context.Context, string, int) ([]fragment.Fragment, error) {
	return nil, fmt.Errorf("%w: no reachable servers", fragment.ErrUnavailable)
}

func TestAsk_StoreDownIs503(t *testing.T) {
	srv := newTestServer(t, downStore{fragment.NewMemoryStore()}, &stubGenerator{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ask",
		strings.NewReader(`{"question":"q","document_id":"doc-1"}`)))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, kindStoreUnavailable, decodeBody(t, rec)["kind"])
}

func TestAsk_ValidatesBody(t *testing.T) {
	srv := newTestServer(t, fragment.NewMemoryStore(), &stubGenerator{})

	cases := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"question": `},
		{name: "missing question", body: `{"document_id":"doc-1"}`},
		{name: "missing document_id", body: `{"question":"q"}`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(c.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAsk_EmptyDocumentReturnsFixedAnswer(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("%w: must not be called", llm.ErrGenerationUnavailable)}
	srv := newTestServer(t, fragment.NewMemoryStore(), gen)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ask",
		strings.NewReader(`{"question":"q","document_id":"empty-doc"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pipeline.NoContentAnswer, decodeBody(t, rec)["answer"])
}

func TestAsk_GenerationDownIs502(t *testing.T) {
	ctx := context.Background()
	store := fragment.NewMemoryStore()
	require.NoError(t, store.Store(ctx, []fragment.Fragment{
		{DocumentID: "doc-1", Text: "content", Page: 1, Order: 0},
	}))
	gen := &stubGenerator{err: fmt.Errorf("%w: timeout", llm.ErrGenerationUnavailable)}
	srv := newTestServer(t, store, gen)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ask",
		strings.NewReader(`{"question":"q","document_id":"doc-1"}`)))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, kindGenerationUnavailable, body["kind"])
	assert.Equal(t, "LLM service unavailable", body["error"])
}

func TestAsk_Success(t *testing.T) {
	ctx := context.Background()
	store := fragment.NewMemoryStore()
	require.NoError(t, store.Store(ctx, []fragment.Fragment{
		{DocumentID: "doc-1", Text: "the sky is blue", Page: 1, Order: 0},
	}))
	srv := newTestServer(t, store, &stubGenerator{answer: "The sky is blue."})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ask",
		strings.NewReader(`{"question":"what color is the sky?","document_id":"doc-1"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "The sky is blue.", decodeBody(t, rec)["answer"])
}
