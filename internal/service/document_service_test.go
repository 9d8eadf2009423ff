package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"document-portal/internal/domain"
	"document-portal/internal/metrics"
	apperrors "document-portal/pkg/errors"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type documentServiceFixture struct {
	svc       *DocumentService
	repo      *MockSessionRepository
	mirror    *MockMirror
	metrics   *metrics.Metrics
	extractor *fakeExtractor
	logger    *MockLogger
}

func newDocumentServiceFixture(t *testing.T) *documentServiceFixture {
	t.Helper()
	f := &documentServiceFixture{
		repo:      NewMockSessionRepository(),
		mirror:    NewMockMirror(),
		metrics:   metrics.NewMetrics(),
		extractor: newFakeExtractor("page one", "page two"),
		logger:    NewMockLogger(),
	}
	svc, err := NewDocumentService(t.TempDir(), 1024, f.extractor, f.repo, f.logger)
	if err != nil {
		t.Fatalf("unexpected error creating service: %v", err)
	}
	f.svc = svc.WithMirror(f.mirror).WithMetrics(f.metrics)
	return f
}

func TestDocumentService_CreateSession(t *testing.T) {
	f := newDocumentServiceFixture(t)

	record, err := f.svc.CreateSession("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(record.ID) != 12 {
		t.Fatalf("expected generated id, got %q", record.ID)
	}
	if info, err := os.Stat(filepath.Join(f.svc.BaseDir(), record.ID)); err != nil || !info.IsDir() {
		t.Fatalf("expected session directory, err=%v", err)
	}
	if _, err := f.repo.Get(record.ID); err != nil {
		t.Fatalf("expected session to be registered: %v", err)
	}
	if got := testutil.ToFloat64(f.metrics.SessionsOpenedTotal); got != 1 {
		t.Fatalf("expected 1 session opened, got %v", got)
	}
}

func TestDocumentService_CreateSessionExplicitID(t *testing.T) {
	f := newDocumentServiceFixture(t)

	first, err := f.svc.CreateSession("my-session")
	if err != nil {
		t.Fatal(err)
	}
	again, err := f.svc.CreateSession("my-session")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != "my-session" || again.ID != "my-session" {
		t.Fatalf("expected explicit id to be kept, got %s and %s", first.ID, again.ID)
	}

	records, err := f.svc.ListSessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one registered session, got %d", len(records))
	}
}

func TestDocumentService_CreateSessionInvalidID(t *testing.T) {
	f := newDocumentServiceFixture(t)

	_, err := f.svc.CreateSession("../escape")
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDocumentService_CreateSessionRegistryFailure(t *testing.T) {
	f := newDocumentServiceFixture(t)
	f.repo.err = errors.New("disk full")

	if _, err := f.svc.CreateSession(""); err == nil {
		t.Fatal("expected registry error")
	}
}

func TestDocumentService_UnknownSession(t *testing.T) {
	f := newDocumentServiceFixture(t)

	if _, err := f.svc.ListDocuments("nope"); !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		t.Fatalf("expected not found listing, got %v", err)
	}
	if _, err := f.svc.ReadDocument("nope", "a.pdf"); !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		t.Fatalf("expected not found reading, got %v", err)
	}

	_, err := f.svc.UploadDocument(context.Background(), "nope", "a.pdf", strings.NewReader("x"))
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
	if got := testutil.ToFloat64(f.metrics.DocumentsRejectedTotal.WithLabelValues("not_found")); got != 1 {
		t.Fatalf("expected rejected counter 1, got %v", got)
	}

	// upload must not create the session
	if _, err := os.Stat(filepath.Join(f.svc.BaseDir(), "nope")); !os.IsNotExist(err) {
		t.Fatalf("expected session directory not to exist, err=%v", err)
	}
}

func TestDocumentService_UploadDocument(t *testing.T) {
	f := newDocumentServiceFixture(t)
	record, err := f.svc.CreateSession("s1")
	if err != nil {
		t.Fatal(err)
	}

	result, err := f.svc.UploadDocument(context.Background(), record.ID, "report.pdf", strings.NewReader("%PDF-data"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PageCount != 2 {
		t.Fatalf("expected 2 pages, got %d", result.PageCount)
	}

	rec, _ := f.repo.Get("s1")
	file, ok := rec.File("report.pdf")
	if !ok {
		t.Fatal("expected file to be indexed")
	}
	if file.Size != int64(len("%PDF-data")) || file.Checksum != result.Checksum {
		t.Fatalf("unexpected indexed file %+v", file)
	}

	if string(f.mirror.files["s1/report.pdf"]) != "%PDF-data" {
		t.Fatalf("expected mirrored copy, got %v", f.mirror.files)
	}
	if got := testutil.ToFloat64(f.metrics.MirrorUploadsTotal.WithLabelValues("success")); got != 1 {
		t.Fatalf("expected 1 mirror success, got %v", got)
	}
	if got := testutil.ToFloat64(f.metrics.DocumentsSavedTotal); got != 1 {
		t.Fatalf("expected 1 saved document, got %v", got)
	}
	if got := testutil.ToFloat64(f.metrics.DocumentBytesTotal); got != float64(len("%PDF-data")) {
		t.Fatalf("unexpected byte counter %v", got)
	}

	docs, err := f.svc.ListDocuments("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0] != "report.pdf" {
		t.Fatalf("expected [report.pdf], got %v", docs)
	}
}

func TestDocumentService_UploadRejectsNonPDF(t *testing.T) {
	f := newDocumentServiceFixture(t)
	if _, err := f.svc.CreateSession("s1"); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.UploadDocument(context.Background(), "s1", "image.png", strings.NewReader("x"))
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := testutil.ToFloat64(f.metrics.DocumentsRejectedTotal.WithLabelValues("validation")); got != 1 {
		t.Fatalf("expected rejected counter 1, got %v", got)
	}
	if len(f.mirror.files) != 0 {
		t.Fatal("expected nothing mirrored")
	}
}

func TestDocumentService_UploadTooLarge(t *testing.T) {
	f := newDocumentServiceFixture(t)
	if _, err := f.svc.CreateSession("s1"); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.UploadDocument(context.Background(), "s1", "big.pdf", strings.NewReader(strings.Repeat("x", 2048)))
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDocumentService_MirrorFailureIsNotFatal(t *testing.T) {
	f := newDocumentServiceFixture(t)
	f.mirror.err = errors.New("bucket unavailable")
	if _, err := f.svc.CreateSession("s1"); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.UploadDocument(context.Background(), "s1", "a.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("expected upload to succeed, got %v", err)
	}
	if got := testutil.ToFloat64(f.metrics.MirrorUploadsTotal.WithLabelValues("failure")); got != 1 {
		t.Fatalf("expected 1 mirror failure, got %v", got)
	}
}

func TestDocumentService_UploadWithoutMirror(t *testing.T) {
	svc, err := NewDocumentService(t.TempDir(), 0, newFakeExtractor("p"), NewMockSessionRepository(), NewMockLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateSession("s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UploadDocument(context.Background(), "s1", "a.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDocumentService_ReadDocument(t *testing.T) {
	f := newDocumentServiceFixture(t)
	if _, err := f.svc.CreateSession("s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.UploadDocument(context.Background(), "s1", "report.pdf", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}

	doc, err := f.svc.ReadDocument("s1", "report")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.FileName != "report.pdf" || doc.PageCount != 2 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if CountPageSeparators(doc.Text) != 2 {
		t.Fatalf("expected 2 separators in %q", doc.Text)
	}

	_, err = f.svc.ReadDocument("s1", "missing.pdf")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected document not found, got %v", err)
	}
}

func TestDocumentService_TextOperations(t *testing.T) {
	f := newDocumentServiceFixture(t)

	if got := f.svc.Analyze("one two three"); got.WordCount != 3 || got.CharCount != 13 {
		t.Fatalf("unexpected analysis %+v", got)
	}
	if got := f.svc.Compare("abc", "xyz"); !got.SameLength {
		t.Fatalf("expected same length, got %+v", got)
	}
	if got := f.svc.Retrieve("q"); got.Context != "Retrieved context for: q" {
		t.Fatalf("unexpected retrieval %+v", got)
	}
}
