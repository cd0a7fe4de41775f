package insights

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"wealthway/internal/cache"
	"wealthway/internal/core"
	"wealthway/internal/log"
)

// Client asks a Provider for advice about a set of transactions. It never
// fails: any provider error is logged and FallbackMessage is returned.
type Client struct {
	provider Provider
	cache    cache.Cache[string]
	timeout  time.Duration
}

type Option func(*Client)

// WithCache answers repeated prompts from c.
func WithCache(c cache.Cache[string]) Option {
	return func(cl *Client) { cl.cache = c }
}

// WithTimeout bounds every provider call.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.timeout = d }
}

func NewClient(p Provider, opts ...Option) *Client {
	if p == nil {
		p = Disabled{}
	}
	c := &Client{provider: p}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate returns advice for txs, served from the cache when the same
// prompt was answered before.
func (c *Client) Generate(ctx context.Context, txs []core.Transaction) string {
	return c.generate(ctx, txs, true)
}

// Regenerate always asks the provider. A successful answer replaces any
// cached one.
func (c *Client) Regenerate(ctx context.Context, txs []core.Transaction) string {
	return c.generate(ctx, txs, false)
}

func (c *Client) generate(ctx context.Context, txs []core.Transaction, useCache bool) string {
	prompt := BuildPrompt(txs)
	key := c.cacheKey(prompt)
	if useCache && c.cache != nil {
		if text, ok := c.cache.Get(key); ok {
			slog.DebugContext(ctx, "Insights served from cache", "provider", c.provider.Name())
			return text
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.provider.Complete(ctx, prompt)
	switch {
	case errors.Is(err, ErrDisabled):
		return FallbackMessage
	case err != nil && errors.Is(ctx.Err(), context.Canceled):
		slog.DebugContext(ctx, "Insights request canceled", "provider", c.provider.Name())
		return FallbackMessage
	case err != nil:
		slog.ErrorContext(ctx, "Insights generation failed",
			log.FieldComponent, log.ComponentInsights,
			"provider", c.provider.Name(),
			log.FieldError, err,
			log.FieldDuration, time.Since(start).Milliseconds())
		return FallbackMessage
	}

	if c.cache != nil {
		c.cache.Set(key, text)
	}
	slog.InfoContext(ctx, "Insights generated",
		log.FieldComponent, log.ComponentInsights,
		"provider", c.provider.Name(),
		"transactions", len(txs),
		log.FieldDuration, time.Since(start).Milliseconds())
	return text
}

func (c *Client) cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(c.provider.Name() + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}
