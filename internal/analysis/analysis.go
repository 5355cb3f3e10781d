// Package analysis turns an uploaded PDF into a structured report by asking
// an LLM provider. Calls are all-or-nothing: either a complete Result comes
// back or the error wraps ErrAnalysisFailed.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/scholarlens/internal/library"
)

var (
	// ErrAnalysisFailed wraps every provider or response failure.
	ErrAnalysisFailed = errors.New("analysis failed")
	// ErrUnsupportedMedia rejects uploads that are not PDFs.
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

const (
	pdfMimeType = "application/pdf"

	defaultOpenAIModel    = "gpt-4o-mini"
	defaultOllamaModel    = "ministral-3:latest"
	defaultOllamaHost     = "http://localhost:11434"
	defaultLLMHTTPTimeout = 3 * time.Minute
	// Roughly 4 chars per token; keeps prompts well inside common context windows.
	maxReportSourceChars = 180_000
)

// Language selects the output language of the report.
type Language string

const (
	English Language = "en"
	Chinese Language = "zh"
)

// ParseLanguage accepts codes and display names.
func ParseLanguage(value string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "en", "english":
		return English, nil
	case "zh", "chinese", "中文":
		return Chinese, nil
	default:
		return "", fmt.Errorf("unsupported language %q", value)
	}
}

// DisplayName returns the human readable language name.
func (l Language) DisplayName() string {
	if l == Chinese {
		return "Chinese"
	}
	return "English"
}

// Request is one uploaded document.
type Request struct {
	Filename string
	Data     []byte
	MimeType string
	Language Language
}

// Result is the provider output. Metadata.Folder is always empty;
// SuggestedFolder is only a hint for the save step.
type Result struct {
	Report          string
	Metadata        library.Metadata
	SuggestedFolder string
}

// Analyzer is the external analysis collaborator.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (Result, error)
	Name() string
}

// Config describes how to build an analyzer.
type Config struct {
	Provider   string
	Model      string
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// New builds the analyzer for cfg.Provider, filling gaps from the environment.
func New(cfg Config) (Analyzer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		if os.Getenv("OPENAI_API_KEY") != "" || cfg.APIKey != "" {
			provider = "openai"
		} else {
			provider = "ollama"
		}
	}
	switch provider {
	case "openai":
		key := cfg.APIKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		if key == "" {
			return nil, errors.New("openai provider requires an API key")
		}
		model := firstNonEmpty(cfg.Model, os.Getenv("OPENAI_MODEL"), defaultOpenAIModel)
		return newLLMAnalyzer(newOpenAICompleter(key, model, cfg.Endpoint, pickHTTPClient(cfg.HTTPClient)), logger), nil
	case "ollama":
		host := firstNonEmpty(cfg.Endpoint, os.Getenv("OLLAMA_HOST"), defaultOllamaHost)
		model := firstNonEmpty(cfg.Model, os.Getenv("OLLAMA_MODEL"), defaultOllamaModel)
		return newLLMAnalyzer(&ollamaCompleter{
			host:   strings.TrimRight(host, "/"),
			model:  model,
			client: pickHTTPClient(cfg.HTTPClient),
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Long reports routinely take more than a minute; callers cancel via ctx.
	return &http.Client{Timeout: defaultLLMHTTPTimeout}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func failed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAnalysisFailed, fmt.Sprintf(format, args...))
}

func wrapFailed(op string, err error) error {
	if errors.Is(err, ErrAnalysisFailed) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrAnalysisFailed, err)
}
