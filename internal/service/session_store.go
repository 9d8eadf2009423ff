package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"document-portal/internal/domain"
	apperrors "document-portal/pkg/errors"

	"github.com/cespare/xxhash"
	"github.com/google/uuid"
)

// DefaultBaseDir is where session folders are created, relative to the
// working directory.
const DefaultBaseDir = "data/document_analyzer"

const pdfExt = ".pdf"

// SessionStore manages the PDFs of one session:
//
//	<base_dir>/<session_id>/*.pdf
type SessionStore struct {
	baseDir     string
	sessionID   string
	sessionPath string
	maxFileSize int64

	extractor domain.TextExtractor
	logger    domain.Logger
}

// SavedFile describes a PDF written by Save.
type SavedFile struct {
	Path string
	domain.SessionFile
}

// NewSessionID returns a fresh 12 character hex session id.
func NewSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// NewSessionStore opens the session directory under baseDir, creating it if
// needed. A relative baseDir is resolved against the working directory and
// an empty sessionID gets a generated one.
func NewSessionStore(baseDir, sessionID string, extractor domain.TextExtractor, logger domain.Logger) (*SessionStore, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if !filepath.IsAbs(baseDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, apperrors.NewInternalError("Failed to resolve working directory", err)
		}
		baseDir = filepath.Join(cwd, baseDir)
	}

	if sessionID == "" {
		sessionID = NewSessionID()
	}
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return nil, apperrors.NewValidationError("Invalid session id", err.Error())
	}

	s := &SessionStore{
		baseDir:     baseDir,
		sessionID:   sessionID,
		sessionPath: filepath.Join(baseDir, sessionID),
		extractor:   extractor,
		logger:      logger.Named("session_store"),
	}

	if err := os.MkdirAll(s.sessionPath, 0o755); err != nil {
		appErr := apperrors.NewInternalError("Failed to create session directory", err)
		s.logger.Error("Failed to initialise session", appErr, "session_path", s.sessionPath, "session_id", sessionID)
		return nil, appErr
	}

	s.logger.Info("Session initialised", "session_path", s.sessionPath, "session_id", sessionID)
	return s, nil
}

// WithMaxFileSize limits the size of files accepted by Save. Zero or a
// negative value disables the limit.
func (s *SessionStore) WithMaxFileSize(n int64) *SessionStore {
	s.maxFileSize = n
	return s
}

// SessionID returns the session identifier
func (s *SessionStore) SessionID() string {
	return s.sessionID
}

// SessionPath returns the absolute session directory
func (s *SessionStore) SessionPath() string {
	return s.sessionPath
}

// BaseDir returns the absolute base directory
func (s *SessionStore) BaseDir() string {
	return s.baseDir
}

// Save writes the content of r to the session directory under the base name
// of name and returns the saved path. Names without a .pdf extension are
// rejected before anything is written.
func (s *SessionStore) Save(name string, r io.Reader) (string, error) {
	saved, err := s.save(name, r)
	if err != nil {
		return "", err
	}
	return saved.Path, nil
}

func (s *SessionStore) save(name string, r io.Reader) (*SavedFile, error) {
	filename := filepath.Base(strings.TrimSpace(name))
	if !strings.HasSuffix(strings.ToLower(filename), pdfExt) {
		err := apperrors.NewValidationError("Invalid file type. Only PDFs are allowed.", filename)
		err.Cause = domain.ErrInvalidFileType
		s.logger.Error("Failed to save PDF", err, "file", filename, "session_id", s.sessionID)
		return nil, err
	}

	savePath := filepath.Join(s.sessionPath, filename)

	// Write to a temp file and rename so a reader never sees a partial file
	// and concurrent saves of one name end with one complete file.
	tmp, err := os.CreateTemp(s.sessionPath, ".upload-*.tmp")
	if err != nil {
		return nil, s.saveFailed(filename, apperrors.NewInternalError("Failed to save PDF", err))
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	src := r
	if s.maxFileSize > 0 {
		src = io.LimitReader(r, s.maxFileSize+1)
	}
	hasher := xxhash.New()
	size, err := io.Copy(io.MultiWriter(tmp, hasher), src)
	if err != nil {
		cleanup()
		return nil, s.saveFailed(filename, apperrors.NewInternalError("Failed to save PDF", err))
	}
	if s.maxFileSize > 0 && size > s.maxFileSize {
		cleanup()
		tooLarge := apperrors.NewValidationError(
			fmt.Sprintf("File too large. Maximum size is %d bytes.", s.maxFileSize), filename)
		tooLarge.Cause = domain.ErrFileTooLarge
		return nil, s.saveFailed(filename, tooLarge)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, s.saveFailed(filename, apperrors.NewInternalError("Failed to save PDF", err))
	}
	if err := os.Rename(tmpPath, savePath); err != nil {
		os.Remove(tmpPath)
		return nil, s.saveFailed(filename, apperrors.NewInternalError("Failed to save PDF", err))
	}

	saved := &SavedFile{
		Path: savePath,
		SessionFile: domain.SessionFile{
			Name:     filename,
			Size:     size,
			Checksum: fmt.Sprintf("%016x", hasher.Sum64()),
			SavedAt:  time.Now().UTC(),
		},
	}
	s.logger.Info("PDF saved successfully", "file", filename, "save_path", savePath, "session_id", s.sessionID, "size", size)
	return saved, nil
}

func (s *SessionStore) saveFailed(filename string, err *apperrors.AppError) error {
	s.logger.Error("Failed to save PDF", err, "file", filename, "session_id", s.sessionID)
	return err
}

// Read extracts all text from the PDF at path, page by page, each page
// preceded by a "--- Page N ---" separator.
func (s *SessionStore) Read(path string) (string, error) {
	pages, err := s.readPages(path)
	if err != nil {
		return "", err
	}
	return FormatPages(pages), nil
}

func (s *SessionStore) readPages(path string) ([]string, error) {
	pages, err := s.extractor.ExtractPages(path)
	if err != nil {
		appErr := apperrors.NewProcessingError(fmt.Sprintf("Could not process PDF: %s", path), err)
		s.logger.Error("Failed to read PDF", appErr, "pdf_path", path, "session_id", s.sessionID)
		return nil, appErr
	}
	s.logger.Info("PDF read successfully", "pdf_path", path, "session_id", s.sessionID, "pages", len(pages))
	return pages, nil
}

// List returns the sorted names of all PDFs in the session folder.
func (s *SessionStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.sessionPath)
	if err != nil {
		appErr := apperrors.NewInternalError("Failed to list PDFs", err)
		s.logger.Error("Failed to list PDFs in session", appErr, "session_id", s.sessionID)
		return nil, appErr
	}

	pdfs := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.ToLower(filepath.Ext(e.Name())) == pdfExt {
			pdfs = append(pdfs, e.Name())
		}
	}
	sort.Strings(pdfs)

	s.logger.Info("Listed PDFs in session", "count", len(pdfs), "session_id", s.sessionID)
	return pdfs, nil
}

// PathFor returns the path a PDF name maps to in this session, adding the
// .pdf extension if missing. It does not check existence.
func (s *SessionStore) PathFor(name string) string {
	filename := filepath.Base(strings.TrimSpace(name))
	if !strings.HasSuffix(strings.ToLower(filename), pdfExt) {
		filename += pdfExt
	}
	return filepath.Join(s.sessionPath, filename)
}

func (s *SessionStore) String() string {
	return fmt.Sprintf("SessionStore(base_dir='%s', session_id='%s')", s.baseDir, s.sessionID)
}
