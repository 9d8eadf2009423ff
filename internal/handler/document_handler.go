// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"document-portal/internal/domain"

	"github.com/gorilla/mux"
)

// multipart overhead allowed on top of the file size limit
const uploadOverheadBytes = 1 << 20

// DocumentHandler handles session and document HTTP requests
type DocumentHandler struct {
	documentService domain.DocumentService
	maxUploadBytes  int64
	logger          domain.Logger
}

// NewDocumentHandler creates a new document handler. maxUploadBytes bounds
// the size of an uploaded file; zero disables the limit.
func NewDocumentHandler(documentService domain.DocumentService, maxUploadBytes int64, logger domain.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		maxUploadBytes:  maxUploadBytes,
		logger:          logger.Named("document_handler"),
	}
}

type createSessionRequest struct {
	SessionID string `json:"session_id"`
}

// CreateSession creates a session, optionally with a caller-chosen id
func (h *DocumentHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	record, err := h.documentService.CreateSession(req.SessionID)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// ListSessions returns all registered sessions
func (h *DocumentHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	records, err := h.documentService.ListSessions()
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if records == nil {
		records = make([]*domain.SessionRecord, 0)
	}

	writeJSON(w, http.StatusOK, records)
}

// ListDocuments returns the PDFs stored in a session
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	docs, err := h.documentService.ListDocuments(sessionID)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if docs == nil {
		docs = make([]string, 0)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"documents":  docs,
	})
}

// UploadDocument saves a multipart "file" field into the session
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+uploadOverheadBytes)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large. Maximum size is %d bytes.", h.maxUploadBytes))
			return
		}
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	result, err := h.documentService.UploadDocument(r.Context(), sessionID, header.Filename, file)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ReadDocument returns the extracted text of a stored PDF
func (h *DocumentHandler) ReadDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	doc, err := h.documentService.ReadDocument(vars["id"], vars["name"])
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// Analyze returns word and character counts for a text
func (h *DocumentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, h.documentService.Analyze(req.Text))
}

type compareRequest struct {
	TextA string `json:"text_a"`
	TextB string `json:"text_b"`
}

// Compare compares two texts by length
func (h *DocumentHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, h.documentService.Compare(req.TextA, req.TextB))
}

type retrieveRequest struct {
	Query string `json:"query"`
}

// Retrieve returns the context for a query
func (h *DocumentHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, h.documentService.Retrieve(req.Query))
}
