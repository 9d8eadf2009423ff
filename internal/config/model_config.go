package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"document-portal/internal/domain"
	apperrors "document-portal/pkg/errors"

	"gopkg.in/yaml.v3"
)

// ModelConfig holds the free-form YAML settings used to pick models.
// Keys are consumed ad hoc by their readers; there is no schema.
type ModelConfig struct {
	path string
	data map[string]interface{}
}

// LoadModelConfig reads the YAML file at path. A missing file is an error;
// an empty file yields an empty config.
func LoadModelConfig(path string, logger domain.Logger) (*ModelConfig, error) {
	logger.Info("Loading configuration", "config_path", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		appErr := apperrors.NewConfigError(fmt.Sprintf("Failed to load config from '%s'.", path), err)
		logger.Error("Config file not found", appErr, "config_path", path)
		return nil, appErr
	}

	data := make(map[string]interface{})
	if err := yaml.Unmarshal(raw, &data); err != nil {
		appErr := apperrors.NewConfigError(fmt.Sprintf("Failed to parse config '%s'.", path), err)
		logger.Error("Invalid YAML in config", appErr, "config_path", path)
		return nil, appErr
	}

	cfg := &ModelConfig{path: path, data: data}
	logger.Info("Configuration loaded successfully", "keys", len(data))
	return cfg, nil
}

// Path returns the file the config was loaded from.
func (c *ModelConfig) Path() string {
	return c.path
}

// Keys returns the sorted top-level keys.
func (c *ModelConfig) Keys() []string {
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetString returns the string at a dotted path.
func (c *ModelConfig) GetString(path string) (string, error) {
	v, err := c.lookup(path)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return "", c.missing(path)
	default:
		return fmt.Sprint(s), nil
	}
}

// GetFloat returns the number at a dotted path, or defaultValue when absent.
func (c *ModelConfig) GetFloat(path string, defaultValue float64) (float64, error) {
	v, err := c.lookup(path)
	if err != nil {
		return defaultValue, nil
	}
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case float64:
		return n, nil
	case nil:
		return defaultValue, nil
	default:
		return 0, apperrors.NewConfigError(fmt.Sprintf("config key '%s' is not a number", path), nil)
	}
}

// GetInt returns the integer at a dotted path, or defaultValue when absent.
func (c *ModelConfig) GetInt(path string, defaultValue int) (int, error) {
	v, err := c.lookup(path)
	if err != nil {
		return defaultValue, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		if n != float64(int(n)) {
			return 0, apperrors.NewConfigError(fmt.Sprintf("config key '%s' is not an integer", path), nil)
		}
		return int(n), nil
	case nil:
		return defaultValue, nil
	default:
		return 0, apperrors.NewConfigError(fmt.Sprintf("config key '%s' is not an integer", path), nil)
	}
}

func (c *ModelConfig) lookup(path string) (interface{}, error) {
	var cur interface{} = c.data
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, c.missing(path)
		}
		cur, ok = m[part]
		if !ok {
			return nil, c.missing(path)
		}
	}
	return cur, nil
}

func (c *ModelConfig) missing(path string) error {
	return apperrors.NewConfigError(fmt.Sprintf("config key '%s' not found in %s", path, c.path), domain.ErrConfigKeyMissing)
}
