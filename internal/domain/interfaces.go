package domain

import (
	"context"
	"io"
)

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	// Named returns a child logger tagged with the given component name.
	Named(name string) Logger
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetDataDir() string
	GetMaxFileSize() int64
	GetLogLevel() string
	GetLogDir() string
	GetConfigPath() string
	GetRegistryPath() string
	GetLLMProvider() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetSupabaseBucket() string
	GetAllowedOrigins() []string
}

// ModelSettings is read-only access to the free-form YAML model config.
// Paths are dot separated, e.g. "llm.openai.model_name".
type ModelSettings interface {
	GetString(path string) (string, error)
	GetFloat(path string, defaultValue float64) (float64, error)
	GetInt(path string, defaultValue int) (int, error)
	Keys() []string
}

// TextExtractor extracts per-page text from a PDF on disk.
type TextExtractor interface {
	ExtractPages(path string) ([]string, error)
}

// SessionRepository indexes sessions and the files saved into them.
// The filesystem stays authoritative for listing.
type SessionRepository interface {
	Register(id string, path string) (*SessionRecord, error)
	AddFile(sessionID string, file SessionFile) error
	Get(id string) (*SessionRecord, error)
	List() ([]*SessionRecord, error)
	Close() error
}

// DocumentMirror copies saved documents to remote object storage.
type DocumentMirror interface {
	Upload(ctx context.Context, path string, file io.Reader) error
}

// DocumentService defines the use-case operations exposed over HTTP.
type DocumentService interface {
	CreateSession(sessionID string) (*SessionRecord, error)
	ListSessions() ([]*SessionRecord, error)
	ListDocuments(sessionID string) ([]string, error)
	UploadDocument(ctx context.Context, sessionID string, filename string, file io.Reader) (*IngestionResult, error)
	ReadDocument(sessionID string, filename string) (*DocumentText, error)

	Analyze(text string) AnalysisResult
	Compare(textA, textB string) ComparisonResult
	Retrieve(query string) RetrievalResult
}

// ModelCatalog describes the configured language and embedding models.
type ModelCatalog interface {
	Describe() (*ModelInfo, error)
}
