package domain

import "errors"

// Domain errors
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrInvalidSessionID    = errors.New("invalid session id")
	ErrInvalidFileType     = errors.New("invalid file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrMissingAPIKey       = errors.New("missing api key")
	ErrUnsupportedProvider = errors.New("unsupported llm provider")
	ErrConfigKeyMissing    = errors.New("config key missing")
)
