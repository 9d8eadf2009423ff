package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"document-portal/internal/domain"
	"document-portal/internal/metrics"
	apperrors "document-portal/pkg/errors"
)

// DocumentService implements domain.DocumentService over session
// directories on disk, indexed in a session repository.
type DocumentService struct {
	baseDir     string
	maxFileSize int64
	extractor   domain.TextExtractor
	sessions    domain.SessionRepository
	mirror      domain.DocumentMirror
	metrics     *metrics.Metrics
	logger      domain.Logger
}

func NewDocumentService(
	baseDir string,
	maxFileSize int64,
	extractor domain.TextExtractor,
	sessions domain.SessionRepository,
	logger domain.Logger,
) (*DocumentService, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to resolve data directory", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, apperrors.NewInternalError("Failed to create data directory", err)
	}

	return &DocumentService{
		baseDir:     abs,
		maxFileSize: maxFileSize,
		extractor:   extractor,
		sessions:    sessions,
		logger:      logger.Named("document_service"),
	}, nil
}

// WithMirror enables best-effort copies of uploaded PDFs to remote storage.
func (s *DocumentService) WithMirror(mirror domain.DocumentMirror) *DocumentService {
	s.mirror = mirror
	return s
}

func (s *DocumentService) WithMetrics(m *metrics.Metrics) *DocumentService {
	s.metrics = m
	return s
}

// BaseDir returns the absolute directory holding session folders.
func (s *DocumentService) BaseDir() string {
	return s.baseDir
}

// CreateSession creates the session directory and registers it. An empty
// sessionID gets a generated one; an existing session is reopened.
func (s *DocumentService) CreateSession(sessionID string) (*domain.SessionRecord, error) {
	store, err := NewSessionStore(s.baseDir, sessionID, s.extractor, s.logger)
	if err != nil {
		return nil, err
	}

	record, err := s.sessions.Register(store.SessionID(), store.SessionPath())
	if err != nil {
		s.logger.Error("Failed to register session", err, "session_id", store.SessionID())
		return nil, apperrors.Wrap(err, "Failed to register session")
	}

	if s.metrics != nil {
		s.metrics.SessionsOpenedTotal.Inc()
	}
	return record, nil
}

func (s *DocumentService) ListSessions() ([]*domain.SessionRecord, error) {
	records, err := s.sessions.List()
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to list sessions")
	}
	return records, nil
}

func (s *DocumentService) ListDocuments(sessionID string) ([]string, error) {
	store, err := s.openExisting(sessionID)
	if err != nil {
		return nil, err
	}
	return store.List()
}

// UploadDocument saves file into an existing session and reads it back.
// Registry and mirror failures are logged but do not fail the upload.
func (s *DocumentService) UploadDocument(ctx context.Context, sessionID string, filename string, file io.Reader) (*domain.IngestionResult, error) {
	store, err := s.openExisting(sessionID)
	if err != nil {
		s.rejected(err)
		return nil, err
	}
	store.WithMaxFileSize(s.maxFileSize)

	in, err := ingest(ctx, store, filename, file)
	if err != nil {
		s.rejected(err)
		return nil, err
	}

	if _, err := s.sessions.Register(sessionID, store.SessionPath()); err != nil {
		s.logger.Warn("Failed to register session", "session_id", sessionID, "error", err)
	} else if err := s.sessions.AddFile(sessionID, in.file); err != nil {
		s.logger.Warn("Failed to index document", "session_id", sessionID, "file", in.file.Name, "error", err)
	}

	if s.metrics != nil {
		s.metrics.DocumentsSavedTotal.Inc()
		s.metrics.DocumentBytesTotal.Add(float64(in.file.Size))
		s.metrics.PagesExtractedTotal.Add(float64(in.result.PageCount))
	}

	s.mirrorUpload(ctx, sessionID, in.result.Path, in.file.Name)

	return &in.result, nil
}

// ReadDocument extracts the text of a PDF already stored in a session.
func (s *DocumentService) ReadDocument(sessionID string, filename string) (*domain.DocumentText, error) {
	store, err := s.openExisting(sessionID)
	if err != nil {
		return nil, err
	}

	path := store.PathFor(filename)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, apperrors.NewNotFoundError("Document not found", domain.ErrDocumentNotFound)
	}

	pages, err := store.readPages(path)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.PagesExtractedTotal.Add(float64(len(pages)))
	}

	return &domain.DocumentText{
		SessionID: store.SessionID(),
		FileName:  filepath.Base(path),
		PageCount: len(pages),
		Text:      FormatPages(pages),
	}, nil
}

func (s *DocumentService) Analyze(text string) domain.AnalysisResult {
	return AnalyzeDocument(text)
}

func (s *DocumentService) Compare(textA, textB string) domain.ComparisonResult {
	return CompareDocuments(textA, textB)
}

func (s *DocumentService) Retrieve(query string) domain.RetrievalResult {
	return domain.RetrievalResult{Query: query, Context: RetrieveContext(query)}
}

// openExisting opens a session store only if its directory already exists.
func (s *DocumentService) openExisting(sessionID string) (*SessionStore, error) {
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return nil, apperrors.NewValidationError("Invalid session id", err.Error())
	}

	info, err := os.Stat(filepath.Join(s.baseDir, sessionID))
	if err != nil || !info.IsDir() {
		return nil, apperrors.NewNotFoundError("Session not found", domain.ErrSessionNotFound)
	}

	return NewSessionStore(s.baseDir, sessionID, s.extractor, s.logger)
}

func (s *DocumentService) mirrorUpload(ctx context.Context, sessionID, path, name string) {
	if s.mirror == nil {
		return
	}

	status := "success"
	defer func() {
		if s.metrics != nil {
			s.metrics.MirrorUploadsTotal.WithLabelValues(status).Inc()
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		status = "failure"
		s.logger.Warn("Failed to open document for mirroring", "path", path, "error", err)
		return
	}
	defer f.Close()

	if err := s.mirror.Upload(ctx, sessionID+"/"+name, f); err != nil {
		status = "failure"
		s.logger.Warn("Failed to mirror document", "session_id", sessionID, "file", name, "error", err)
	}
}

func (s *DocumentService) rejected(err error) {
	if s.metrics == nil {
		return
	}
	reason := string(apperrors.ErrorTypeInternal)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		reason = string(appErr.Type)
	}
	s.metrics.DocumentsRejectedTotal.WithLabelValues(reason).Inc()
}
