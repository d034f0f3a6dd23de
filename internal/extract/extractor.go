// Package extract turns payment text into partial invoice data without AI.
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/facturaIA/paytext-invoice-service/internal/models"
	"github.com/facturaIA/paytext-invoice-service/internal/reconcile"
)

// DefaultMaxItemAmount is the ceiling above which a detected line item is
// assumed to be a misread phone or account number
var DefaultMaxItemAmount = decimal.NewFromInt(100000)

// Extractor runs the template and heuristic parsers
type Extractor struct {
	now           func() time.Time
	maxItemAmount decimal.Decimal
	logger        *zap.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithClock sets the clock used for missing years
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// WithMaxItemAmount overrides the line-item sanity ceiling
func WithMaxItemAmount(max decimal.Decimal) Option {
	return func(e *Extractor) {
		if max.IsPositive() {
			e.maxItemAmount = max
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor creates a new regex extractor
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		now:           time.Now,
		maxItemAmount: DefaultMaxItemAmount,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parallel runs both parsers concurrently and returns their results separately
func (e *Extractor) Parallel(ctx context.Context, text string) (template, heuristic *models.Partial) {
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		template = e.safeParse("template", text, e.Template)
		return nil
	})
	g.Go(func() error {
		heuristic = e.safeParse("heuristic", text, e.Heuristic)
		return nil
	})
	_ = g.Wait()
	return template, heuristic
}

// ExtractWithRegex runs both parsers and combines them. It never fails.
func (e *Extractor) ExtractWithRegex(ctx context.Context, text string) *models.Partial {
	start := time.Now()
	template, heuristic := e.Parallel(ctx, text)
	combined, _ := reconcile.Combine(template, heuristic)
	combined.Source = models.SourceRegex

	e.logger.Debug("extract.regex.ok",
		zap.Int("templateItems", len(template.Items)),
		zap.Int("heuristicItems", len(heuristic.Items)),
		zap.Duration("took", time.Since(start)),
	)
	return combined
}

// ExtractWithRegex runs the default extractor
func ExtractWithRegex(text string) *models.Partial {
	return NewExtractor().ExtractWithRegex(context.Background(), text)
}

// safeParse keeps a parser panic from escaping; the result degrades to empty
func (e *Extractor) safeParse(name, text string, parse func(string) *models.Partial) (p *models.Partial) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extract.parser.panic", zap.String("parser", name), zap.String("panic", fmt.Sprint(r)))
			p = models.NewPartial(models.Source(name))
		}
	}()
	return parse(text)
}

func (e *Extractor) refYear() int {
	return e.now().Year()
}

func newItem(n int, description string, amount decimal.Decimal) models.LineItem {
	return models.LineItem{
		ID:          fmt.Sprintf("item-%d", n),
		Description: description,
		Quantity:    decimal.NewFromInt(1),
		Rate:        amount,
		Amount:      amount,
	}
}

func cleanValue(s string) string {
	return strings.Trim(strings.TrimSpace(s), " \t.,;:-")
}
