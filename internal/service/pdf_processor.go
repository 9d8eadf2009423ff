package service

import (
	"fmt"
	"strings"
	"time"

	"document-portal/internal/domain"

	"github.com/gen2brain/go-fitz"
)

const defaultPageTimeout = 90 * time.Second

// PDFProcessor handles PDF text extraction
type PDFProcessor struct {
	logger      domain.Logger
	pageTimeout time.Duration
}

// NewPDFProcessor creates a new PDF processor
func NewPDFProcessor(logger domain.Logger) *PDFProcessor {
	return &PDFProcessor{
		logger:      logger.Named("pdf_processor"),
		pageTimeout: defaultPageTimeout,
	}
}

// PDFMetadata contains extracted PDF metadata
type PDFMetadata struct {
	Author    string `json:"author"`
	PageCount int    `json:"page_count"`
	Title     string `json:"title"`
}

// ExtractPages opens the PDF at path and returns the text of every page in
// order. Any page failure fails the whole document.
func (p *PDFProcessor) ExtractPages(path string) ([]string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	closeDoc := true
	defer func() {
		if closeDoc {
			doc.Close()
		}
	}()

	numPages := doc.NumPage()
	pages := make([]string, 0, numPages)

	type pageResult struct {
		text string
		err  error
	}

	for pageNum := 0; pageNum < numPages; pageNum++ {
		p.logger.Debug("PDF processing page", "page", pageNum+1, "total", numPages)
		resultCh := make(chan pageResult, 1)
		go func(idx int) {
			t, e := doc.Text(idx)
			resultCh <- pageResult{text: t, err: e}
		}(pageNum)

		var res pageResult
		select {
		case res = <-resultCh:
		case <-time.After(p.pageTimeout):
			p.logger.Warn("PDF page extraction timeout", "page", pageNum+1, "total", numPages, "timeout_sec", int(p.pageTimeout.Seconds()))
			// the extraction goroutine still owns doc; close it once it returns
			closeDoc = false
			go func() {
				<-resultCh
				doc.Close()
			}()
			return nil, fmt.Errorf("page %d: timeout after %v", pageNum+1, p.pageTimeout)
		}
		if res.err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", pageNum+1, res.err)
		}

		pages = append(pages, sanitizeText(res.text))
	}

	return pages, nil
}

// Metadata returns title, author and page count of the PDF at path.
func (p *PDFProcessor) Metadata(path string) (PDFMetadata, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return PDFMetadata{}, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	meta := PDFMetadata{PageCount: doc.NumPage()}
	info := doc.Metadata()
	if title, ok := info["title"]; ok && title != "" {
		meta.Title = title
	}
	if author, ok := info["author"]; ok && author != "" {
		meta.Author = author
	}
	return meta, nil
}

// sanitizeText removes NULs and control characters other than tab,
// newline and carriage return, so extracted text is safe to JSON-encode.
func sanitizeText(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch {
		case r == 0x09 || r == 0x0A || r == 0x0D:
			result.WriteRune(r)
		case r < 0x20 || r == 0x7F:
			// control character
		case r >= 0xD800 && r <= 0xDFFF:
			// surrogate
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// FormatPages renders page texts the way the store returns a read PDF:
// each page prefixed by a "--- Page N ---" separator line.
func FormatPages(pages []string) string {
	chunks := make([]string, len(pages))
	for i, text := range pages {
		chunks[i] = fmt.Sprintf("\n%s\n%s", pageSeparator(i+1), text)
	}
	return strings.Join(chunks, "\n")
}

// CountPageSeparators returns how many page separators text contains.
func CountPageSeparators(text string) int {
	return strings.Count(text, "\n--- Page ")
}

func pageSeparator(n int) string {
	return fmt.Sprintf("--- Page %d ---", n)
}
