package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/facturaIA/paytext-invoice-service/internal/models"
)

const (
	DefaultTimeout = 12 * time.Second
	MinTimeout     = 10 * time.Second
	MaxTimeout     = 15 * time.Second
)

// ClampTimeout keeps a configured timeout inside [MinTimeout, MaxTimeout].
// Zero selects DefaultTimeout.
func ClampTimeout(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return DefaultTimeout
	case d < MinTimeout:
		return MinTimeout
	case d > MaxTimeout:
		return MaxTimeout
	}
	return d
}

// Extractor handles AI-based data extraction from payment text
type Extractor struct {
	provider Provider
	timeout  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithTimeout sets the hard deadline for one provider call
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithClock sets the clock used for dates without a year
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor creates a new AI extractor. A nil provider is allowed; every
// call then fails with ErrUnavailable.
func NewExtractor(provider Provider, opts ...Option) *Extractor {
	e := &Extractor{
		provider: provider,
		timeout:  DefaultTimeout,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Available reports whether a provider is configured
func (e *Extractor) Available() bool {
	return e != nil && e.provider != nil
}

// ProviderName returns the configured provider name or ""
func (e *Extractor) ProviderName() string {
	if !e.Available() {
		return ""
	}
	return e.provider.Name()
}

type providerResult struct {
	response string
	err      error
}

// Extract sends the text to the provider and parses its reply. Exactly one
// attempt is made. Every failure is wrapped in ErrUnavailable; a reply that
// arrives after the deadline is discarded.
func (e *Extractor) Extract(ctx context.Context, text string) (*models.Partial, error) {
	if !e.Available() {
		return nil, fmt.Errorf("%w: no provider configured", ErrUnavailable)
	}

	startTime := time.Now()
	name := e.provider.Name()
	e.logger.Info("ai.extract.start", zap.String("provider", name), zap.Int("textLength", len(text)))

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	prompt := BuildPrompt(text, e.now())

	// buffered so a late sender never blocks
	done := make(chan providerResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- providerResult{err: fmt.Errorf("provider panic: %v", r)}
			}
		}()
		resp, err := e.provider.ExtractData(callCtx, prompt)
		done <- providerResult{response: resp, err: err}
	}()

	var res providerResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		err := callCtx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s", e.timeout)
		}
		e.logger.Warn("ai.extract.timeout", zap.String("provider", name), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if res.err != nil {
		e.logger.Warn("ai.extract.failed", zap.String("provider", name), zap.Error(res.err))
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, res.err)
	}

	partial, err := parseResponse(res.response, e.now().Year())
	if err != nil {
		e.logger.Warn("ai.extract.unparseable",
			zap.String("provider", name),
			zap.Int("responseLength", len(res.response)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: failed to parse AI response: %w", ErrUnavailable, err)
	}

	e.logger.Info("ai.extract.ok",
		zap.String("provider", name),
		zap.Int("items", len(partial.Items)),
		zap.Duration("took", time.Since(startTime)),
	)
	return partial, nil
}
