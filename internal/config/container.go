package config

import (
	"errors"
	"fmt"

	"document-portal/internal/domain"
	"document-portal/internal/metrics"
	"document-portal/internal/repository"
	"document-portal/internal/service"
	"document-portal/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	ModelConfig       *ModelConfig
	Metrics           *metrics.Metrics
	SessionRepository *repository.SessionRepository
	Mirror            *service.SupabaseMirror
	DocumentService   *service.DocumentService
	ModelLoader       *service.ModelLoader

	appLogger *logger.AppLogger
}

// NewContainer creates a new dependency injection container. On error,
// everything opened so far is closed again.
func NewContainer() (*Container, error) {
	cfg := NewConfig()

	appLogger, err := logger.NewLogger(cfg.GetLogLevel(), cfg.GetLogDir())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	c := &Container{
		Config:    cfg,
		Logger:    appLogger,
		appLogger: appLogger,
	}

	if err := c.wire(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) wire() error {
	cfg := c.Config

	modelConfig, err := LoadModelConfig(cfg.GetConfigPath(), c.Logger)
	if err != nil {
		return err
	}
	c.ModelConfig = modelConfig

	keys, err := service.NewAPIKeyManager(c.Logger)
	if err != nil {
		return err
	}

	sessions, err := repository.NewSessionRepository(cfg.GetRegistryPath(), c.Logger)
	if err != nil {
		return err
	}
	c.SessionRepository = sessions

	c.Metrics = metrics.NewMetrics()

	documentService, err := service.NewDocumentService(
		cfg.GetDataDir(),
		cfg.GetMaxFileSize(),
		service.NewPDFProcessor(c.Logger),
		sessions,
		c.Logger,
	)
	if err != nil {
		return err
	}
	documentService.WithMetrics(c.Metrics)
	c.DocumentService = documentService

	// Mirroring is optional; it is enabled only when Supabase is configured.
	if cfg.GetSupabaseURL() != "" && cfg.GetSupabaseKey() != "" {
		mirror, err := service.NewSupabaseMirror(cfg.GetSupabaseURL(), cfg.GetSupabaseKey(), cfg.GetSupabaseBucket(), c.Logger)
		if err != nil {
			return err
		}
		documentService.WithMirror(mirror)
		c.Mirror = mirror
		c.Logger.Info("Supabase mirror enabled", "bucket", mirror.Bucket())
	}

	c.ModelLoader = service.NewModelLoader(keys, modelConfig, cfg.GetLLMProvider(), c.Logger)
	c.Logger.Info("Container ready", "model_config", modelConfig.Path(), "data_dir", documentService.BaseDir())
	return nil
}

// LogFilePath returns the daily log file in use, or "" when logging to
// stdout only.
func (c *Container) LogFilePath() string {
	if c.appLogger == nil {
		return ""
	}
	return c.appLogger.FilePath()
}

// Close releases the session registry and the log file.
func (c *Container) Close() error {
	var errs []error
	if c.SessionRepository != nil {
		errs = append(errs, c.SessionRepository.Close())
	}
	if c.appLogger != nil {
		errs = append(errs, c.appLogger.Close())
	}
	return errors.Join(errs...)
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}
