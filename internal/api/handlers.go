package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/papermind/papermind/internal/extractor"
	"github.com/papermind/papermind/internal/fragment"
	"github.com/papermind/papermind/internal/llm"
)

// Stable error kind labels returned to clients. Internal detail stays in
// the server log.
const (
	kindBadRequest            = "bad_request"
	kindUnsupportedFileType   = "unsupported_file_type"
	kindFileTooLarge          = "file_too_large"
	kindUnreadableDocument    = "unreadable_document"
	kindStoreUnavailable      = "store_unavailable"
	kindGenerationUnavailable = "generation_unavailable"
	kindInternal              = "internal"
)

func (s *Server) handleUploadPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1<<20) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), kindFileTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid multipart form", kindBadRequest, http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required", kindBadRequest, http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		jsonError(w, "only PDF files allowed", kindUnsupportedFileType, http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", kindInternal, http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), kindFileTooLarge, http.StatusRequestEntityTooLarge)
		return
	}

	result, err := s.orch.Ingest(r.Context(), filename, data)
	switch {
	case errors.Is(err, extractor.ErrUnreadableDocument):
		jsonError(w, "could not read PDF file", kindUnreadableDocument, http.StatusBadRequest)
	case errors.Is(err, fragment.ErrUnavailable):
		s.log.Error("ingestion failed", "source", filename, "error", err)
		jsonError(w, "storage unavailable", kindStoreUnavailable, http.StatusServiceUnavailable)
	case err != nil:
		s.log.Error("ingestion failed", "source", filename, "error", err)
		jsonError(w, "ingestion failed", kindInternal, http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"message":     "PDF ingested successfully",
			"document_id": result.DocumentID,
			"pages":       result.Pages,
		})
	}
}

type askRequest struct {
	Question   string `json:"question"`
	DocumentID string `json:"document_id"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", kindBadRequest, http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		jsonError(w, "question is required", kindBadRequest, http.StatusBadRequest)
		return
	}
	if req.DocumentID == "" {
		jsonError(w, "document_id is required", kindBadRequest, http.StatusBadRequest)
		return
	}

	answer, err := s.orch.Ask(r.Context(), req.Question, req.DocumentID)
	switch {
	case errors.Is(err, llm.ErrGenerationUnavailable):
		s.log.Error("generation failed", "document_id", req.DocumentID, "error", err)
		jsonError(w, "LLM service unavailable", kindGenerationUnavailable, http.StatusBadGateway)
	case errors.Is(err, fragment.ErrUnavailable):
		s.log.Error("retrieval failed", "document_id", req.DocumentID, "error", err)
		jsonError(w, "storage unavailable", kindStoreUnavailable, http.StatusServiceUnavailable)
	case err != nil:
		s.log.Error("ask failed", "document_id", req.DocumentID, "error", err)
		jsonError(w, "service error", kindInternal, http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func jsonError(w http.ResponseWriter, msg, kind string, code int) {
	writeJSON(w, code, map[string]string{"error": msg, "kind": kind})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
