package service

import (
	"context"
	"fmt"
	"io"

	"document-portal/internal/domain"
	apperrors "document-portal/pkg/errors"

	"github.com/supabase-community/supabase-go"
)

// SupabaseMirror copies saved PDFs into a Supabase storage bucket.
type SupabaseMirror struct {
	client *supabase.Client
	bucket string
	logger domain.Logger
}

// NewSupabaseMirror creates a mirror uploading into bucket. The local
// session directory stays the source of truth.
func NewSupabaseMirror(baseURL, apiKey, bucket string, logger domain.Logger) (*SupabaseMirror, error) {
	if baseURL == "" || apiKey == "" {
		return nil, apperrors.NewConfigError("supabase URL and key must be provided", nil)
	}
	if bucket == "" {
		return nil, apperrors.NewConfigError("supabase bucket must be provided", nil)
	}

	client, err := supabase.NewClient(baseURL, apiKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, apperrors.NewConfigError("Failed to create Supabase client", err)
	}

	log := logger.Named("supabase_mirror")
	log.Info("Supabase mirror initialized", "url", baseURL, "bucket", bucket)

	return &SupabaseMirror{
		client: client,
		bucket: bucket,
		logger: log,
	}, nil
}

// Upload stores file at path inside the bucket.
func (s *SupabaseMirror) Upload(ctx context.Context, path string, file io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.client.Storage.UploadFile(s.bucket, path, file); err != nil {
		appErr := apperrors.NewNetworkError(fmt.Sprintf("storage upload failed for %s", path), err)
		s.logger.Error("Mirror upload failed", appErr, "bucket", s.bucket, "path", path)
		return appErr
	}

	s.logger.Debug("Mirror upload complete", "bucket", s.bucket, "path", path)
	return nil
}

// Bucket returns the target bucket name.
func (s *SupabaseMirror) Bucket() string {
	return s.bucket
}
