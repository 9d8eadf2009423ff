package domain

import "time"

// SessionFile is one PDF saved into a session.
type SessionFile struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Checksum string    `json:"checksum"`
	SavedAt  time.Time `json:"saved_at"`
}

// SessionRecord is the registry entry for a session directory.
type SessionRecord struct {
	ID        string        `json:"id"`
	Path      string        `json:"path"`
	CreatedAt time.Time     `json:"created_at"`
	Files     []SessionFile `json:"files"`
}

// AnalysisResult holds basic text statistics.
type AnalysisResult struct {
	WordCount int `json:"word_count"`
	CharCount int `json:"char_count"`
}

// ComparisonResult compares two documents by size.
type ComparisonResult struct {
	DocAChars  int  `json:"doc_a_chars"`
	DocBChars  int  `json:"doc_b_chars"`
	SameLength bool `json:"same_length"`
}

// IngestionResult reports a document saved and read back from a session.
type IngestionResult struct {
	SessionID string `json:"session_id"`
	FileName  string `json:"file_name"`
	Path      string `json:"path"`
	PageCount int    `json:"page_count"`
	CharCount int    `json:"char_count"`
	Checksum  string `json:"checksum,omitempty"`
}

// RetrievalResult is the context returned for a query.
type RetrievalResult struct {
	Query   string `json:"query"`
	Context string `json:"context"`
}

// DocumentText is the extracted text of a stored PDF.
type DocumentText struct {
	SessionID string `json:"session_id"`
	FileName  string `json:"file_name"`
	PageCount int    `json:"page_count"`
	Text      string `json:"text"`
}

// ModelInfo describes the configured models without exposing credentials.
type ModelInfo struct {
	Provider       string  `json:"provider"`
	LLMModel       string  `json:"llm_model"`
	Temperature    float64 `json:"temperature"`
	MaxTokens      int     `json:"max_output_tokens"`
	EmbeddingModel string  `json:"embedding_model"`
}
