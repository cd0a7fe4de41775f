package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultGeminiModel is used when no model is configured for Gemini.
const DefaultGeminiModel = "gemini-3-flash-preview"

// Supported provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

var (
	ErrDisabled      = errors.New("insights provider disabled")
	ErrEmptyResponse = errors.New("provider returned no text")
)

// Provider completes a single prompt.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderConfig selects and configures a Provider.
type ProviderConfig struct {
	Kind          string
	Model         string
	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

// NewProvider builds the provider named by cfg.Kind.
func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	switch strings.ToLower(cfg.Kind) {
	case ProviderGemini:
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model)
	case ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model)
	case ProviderNone, "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown insights provider %q", cfg.Kind)
	}
}

// Disabled never produces advice, so every request falls back.
type Disabled struct{}

func (Disabled) Name() string { return ProviderNone }

func (Disabled) Complete(context.Context, string) (string, error) {
	return "", ErrDisabled
}
