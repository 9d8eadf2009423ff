package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"document-portal/internal/domain"
	apperrors "document-portal/pkg/errors"

	"github.com/joho/godotenv"
	goopenai "github.com/sashabaranov/go-openai"
)

const (
	ProviderOpenAI = "openai"

	defaultMaxOutputTokens = 2048
	defaultRequestTimeout  = time.Minute
)

// RequiredAPIKeys must be present in the environment at startup.
var RequiredAPIKeys = []string{"OPENAI_API_KEY"}

// APIKeyManager holds provider credentials read from the environment.
type APIKeyManager struct {
	keys map[string]string
}

// NewAPIKeyManager loads envFiles (default .env) without overriding
// variables already set, then reads RequiredAPIKeys. Any missing key is an
// error.
func NewAPIKeyManager(logger domain.Logger, envFiles ...string) (*APIKeyManager, error) {
	log := logger.Named("api_key_manager")

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		log.Debug("No env file loaded", "files", strings.Join(envFiles, ","), "error", err)
	}

	keys := make(map[string]string, len(RequiredAPIKeys))
	var missing []string
	for _, name := range RequiredAPIKeys {
		v := strings.TrimSpace(os.Getenv(name))
		if v == "" {
			missing = append(missing, name)
			continue
		}
		keys[name] = v
	}

	if len(missing) > 0 {
		err := apperrors.NewConfigError(fmt.Sprintf("Missing API keys: %s", strings.Join(missing, ", ")), domain.ErrMissingAPIKey)
		log.Error("Missing required API keys", err, "missing_keys", missing)
		return nil, err
	}

	log.Info("API keys loaded", "keys", sortedKeys(keys))
	return &APIKeyManager{keys: keys}, nil
}

// Get returns the value of a loaded key.
func (m *APIKeyManager) Get(name string) (string, error) {
	v, ok := m.keys[name]
	if !ok {
		return "", apperrors.NewConfigError(fmt.Sprintf("API key %s is missing", name), domain.ErrMissingAPIKey)
	}
	return v, nil
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ChatModel is a configured chat completion client.
type ChatModel struct {
	client      *goopenai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

// Model returns the model name sent with each request.
func (c *ChatModel) Model() string {
	return c.model
}

// Invoke sends prompt as a single user message and returns the reply.
func (c *ChatModel) Invoke(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", apperrors.NewNetworkError("chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewProcessingError("chat completion returned no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

// Summarize asks the model for a concise summary of documentText.
func (c *ChatModel) Summarize(ctx context.Context, documentText string) (string, error) {
	return c.Invoke(ctx, SummarizePrompt(documentText))
}

// Answer asks the model to answer question from docContext.
func (c *ChatModel) Answer(ctx context.Context, docContext, question string) (string, error) {
	return c.Invoke(ctx, QAPrompt(docContext, question))
}

// Embedder is a configured embeddings client.
type Embedder struct {
	client  *goopenai.Client
	model   string
	timeout time.Duration
}

func (e *Embedder) Model() string {
	return e.model
}

// EmbedQuery returns the embedding vector of text.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: []string{text},
		Model: goopenai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, apperrors.NewNetworkError("embedding request failed", err)
	}
	if len(resp.Data) == 0 {
		return nil, apperrors.NewProcessingError("embedding response was empty", nil)
	}
	return resp.Data[0].Embedding, nil
}

// ModelLoader builds model clients from the YAML model config and the
// loaded API keys.
type ModelLoader struct {
	keys     *APIKeyManager
	settings domain.ModelSettings
	provider string
	baseURL  string
	logger   domain.Logger
}

func NewModelLoader(keys *APIKeyManager, settings domain.ModelSettings, defaultProvider string, logger domain.Logger) *ModelLoader {
	if defaultProvider == "" {
		defaultProvider = ProviderOpenAI
	}
	return &ModelLoader{
		keys:     keys,
		settings: settings,
		provider: strings.ToLower(defaultProvider),
		logger:   logger.Named("model_loader"),
	}
}

// WithBaseURL points clients at an OpenAI compatible endpoint.
func (l *ModelLoader) WithBaseURL(url string) *ModelLoader {
	l.baseURL = url
	return l
}

func (l *ModelLoader) client() (*goopenai.Client, error) {
	key, err := l.keys.Get("OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}
	cfg := goopenai.DefaultConfig(key)
	if l.baseURL != "" {
		cfg.BaseURL = l.baseURL
	}
	return goopenai.NewClientWithConfig(cfg), nil
}

// LoadEmbeddings returns the embeddings client named by
// embedding_model.model_name.
func (l *ModelLoader) LoadEmbeddings() (*Embedder, error) {
	name, err := l.settings.GetString("embedding_model.model_name")
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to load embedding model")
	}
	client, err := l.client()
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to load embedding model")
	}

	l.logger.Info("Loading embedding model", "model", name)
	return &Embedder{client: client, model: name, timeout: defaultRequestTimeout}, nil
}

type llmParams struct {
	model       string
	temperature float64
	maxTokens   int
}

func (l *ModelLoader) llmSettings() (*llmParams, error) {
	prefix := "llm." + ProviderOpenAI + "."
	name, err := l.settings.GetString(prefix + "model_name")
	if err != nil {
		return nil, err
	}
	temperature, err := l.settings.GetFloat(prefix+"temperature", 0)
	if err != nil {
		return nil, err
	}
	maxTokens, err := l.settings.GetInt(prefix+"max_output_tokens", defaultMaxOutputTokens)
	if err != nil {
		return nil, err
	}
	return &llmParams{model: name, temperature: temperature, maxTokens: maxTokens}, nil
}

// LoadLLM returns the chat client configured under llm.openai.
func (l *ModelLoader) LoadLLM() (*ChatModel, error) {
	s, err := l.llmSettings()
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to load LLM")
	}
	client, err := l.client()
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to load LLM")
	}

	l.logger.Info("Loading LLM", "provider", ProviderOpenAI, "model", s.model, "temperature", s.temperature, "max_tokens", s.maxTokens)
	return &ChatModel{
		client:      client,
		model:       s.model,
		temperature: float32(s.temperature),
		maxTokens:   s.maxTokens,
		timeout:     defaultRequestTimeout,
	}, nil
}

// GetLLM returns a chat client for provider, defaulting to the configured
// provider. A non-empty model overrides the configured model name.
func (l *ModelLoader) GetLLM(provider, model string) (*ChatModel, error) {
	if provider == "" {
		provider = l.provider
	}

	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		llm, err := l.LoadLLM()
		if err != nil {
			return nil, err
		}
		if model != "" {
			llm.model = model
		}
		return llm, nil
	default:
		err := apperrors.NewValidationError(fmt.Sprintf("Unsupported LLM provider '%s'", provider), provider)
		err.Cause = domain.ErrUnsupportedProvider
		l.logger.Warn("Unsupported LLM provider requested", "provider", provider)
		return nil, err
	}
}

// Describe reports the configured models for the model catalog endpoint.
func (l *ModelLoader) Describe() (*domain.ModelInfo, error) {
	s, err := l.llmSettings()
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to describe models")
	}
	embedding, err := l.settings.GetString("embedding_model.model_name")
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to describe models")
	}

	return &domain.ModelInfo{
		Provider:       l.provider,
		LLMModel:       s.model,
		Temperature:    s.temperature,
		MaxTokens:      s.maxTokens,
		EmbeddingModel: embedding,
	}, nil
}
