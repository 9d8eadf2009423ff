package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"document-portal/internal/domain"
	apperrors "document-portal/pkg/errors"

	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchWorkers = 4
	previewChars        = 200
)

// IngestDocument saves r into the session as name and reads it back,
// reporting page and character counts of the extracted text.
func IngestDocument(ctx context.Context, store *SessionStore, name string, r io.Reader) (*domain.IngestionResult, error) {
	in, err := ingest(ctx, store, name, r)
	if err != nil {
		return nil, err
	}
	return &in.result, nil
}

type ingested struct {
	result domain.IngestionResult
	file   domain.SessionFile
	text   string
}

func ingest(ctx context.Context, store *SessionStore, name string, r io.Reader) (*ingested, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	saved, err := store.save(name, r)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages, err := store.readPages(saved.Path)
	if err != nil {
		return nil, err
	}
	text := FormatPages(pages)

	return &ingested{
		result: domain.IngestionResult{
			SessionID: store.SessionID(),
			FileName:  saved.Name,
			Path:      saved.Path,
			PageCount: len(pages),
			CharCount: utf8.RuneCountInString(text),
			Checksum:  saved.Checksum,
		},
		file: saved.SessionFile,
		text: text,
	}, nil
}

// BatchOptions configures BatchIngest.
type BatchOptions struct {
	SourceDir   string
	BaseDir     string
	Workers     int
	MaxFileSize int64
	// Now stamps session ids; defaults to time.Now.
	Now func() time.Time
}

// BatchResult is one ingested source file.
type BatchResult struct {
	SourceFile string
	SessionDir string
	Preview    string
	Files      []string
	File       domain.SessionFile
	domain.IngestionResult
}

var sessionStemReplacer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "\x00", "_")

// BatchSessionID derives the session id for a batch-ingested file:
// "<YYYY-MM-DD>_<stem>" with spaces and path separators in the stem
// replaced by underscores.
func BatchSessionID(now time.Time, filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return now.UTC().Format("2006-01-02") + "_" + sessionStemReplacer.Replace(stem)
}

// SourcePDFs returns the sorted paths of PDFs directly inside dir.
func SourcePDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.NewNotFoundError("Failed to read source directory", err)
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.ToLower(filepath.Ext(e.Name())) == pdfExt {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// BatchIngest ingests every PDF in opts.SourceDir into its own session,
// running up to opts.Workers files at a time. The first failure cancels
// the remaining work. Results are ordered by source file name.
func BatchIngest(ctx context.Context, opts BatchOptions, extractor domain.TextExtractor, logger domain.Logger) ([]BatchResult, error) {
	log := logger.Named("batch_ingest")

	sources, err := SourcePDFs(opts.SourceDir)
	if err != nil {
		log.Error("Failed to list source PDFs", err, "source_dir", opts.SourceDir)
		return nil, err
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultBatchWorkers
	}

	results := make([]BatchResult, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, src := range sources {
		g.Go(func() error {
			res, err := ingestFile(gctx, src, opts, now(), extractor, logger)
			if err != nil {
				return err
			}
			results[i] = *res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("Batch ingestion failed", err, "source_dir", opts.SourceDir)
		return nil, err
	}

	log.Info("Batch ingestion finished", "source_dir", opts.SourceDir, "files", len(results))
	return results, nil
}

func ingestFile(ctx context.Context, src string, opts BatchOptions, now time.Time, extractor domain.TextExtractor, logger domain.Logger) (*BatchResult, error) {
	// Files queued behind a failure must not leave empty session dirs.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := filepath.Base(src)

	store, err := NewSessionStore(opts.BaseDir, BatchSessionID(now, name), extractor, logger)
	if err != nil {
		return nil, err
	}
	store.WithMaxFileSize(opts.MaxFileSize)

	f, err := os.Open(src)
	if err != nil {
		return nil, apperrors.NewNotFoundError("Failed to open source PDF", err)
	}
	defer f.Close()

	in, err := ingest(ctx, store, name, f)
	if err != nil {
		return nil, err
	}

	files, err := store.List()
	if err != nil {
		return nil, err
	}

	return &BatchResult{
		SourceFile:      src,
		SessionDir:      store.SessionPath(),
		Preview:         preview(in.text, previewChars),
		Files:           files,
		File:            in.file,
		IngestionResult: in.result,
	}, nil
}

// preview returns the first n characters of text, trimmed.
func preview(text string, n int) string {
	if utf8.RuneCountInString(text) > n {
		text = string([]rune(text)[:n])
	}
	return strings.TrimSpace(text)
}
