package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/facturaIA/paytext-invoice-service/internal/ai"
	"github.com/facturaIA/paytext-invoice-service/internal/extract"
	"github.com/facturaIA/paytext-invoice-service/internal/models"
	"github.com/facturaIA/paytext-invoice-service/internal/reconcile"
	"github.com/facturaIA/paytext-invoice-service/internal/validation"
)

// Required fields reported when still missing after every strategy ran
const (
	FieldClientName = "clientName"
	FieldAmount     = "amount"
	FieldItems      = "items"
)

// ExtractionService runs the regex parsers, the AI extractor when needed,
// and reconciliation
type ExtractionService struct {
	regex  *extract.Extractor
	ai     *ai.Extractor
	engine *reconcile.Engine
	logger *zap.Logger
}

// NewExtractionService creates the pipeline. aiExtractor may be nil.
func NewExtractionService(regex *extract.Extractor, aiExtractor *ai.Extractor, engine *reconcile.Engine, logger *zap.Logger) *ExtractionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtractionService{
		regex:  regex,
		ai:     aiExtractor,
		engine: engine,
		logger: logger,
	}
}

// AIProvider returns the configured AI provider name or ""
func (s *ExtractionService) AIProvider() string {
	return s.ai.ProviderName()
}

// Extract never fails: missing data is reported in Missing and AI problems in Warnings
func (s *ExtractionService) Extract(ctx context.Context, req models.ExtractRequest) *models.ExtractResponse {
	startTime := time.Now()
	resp := &models.ExtractResponse{Success: true}

	regexResult := s.regex.ExtractWithRegex(ctx, req.Text)
	resp.RegexDuration = time.Since(startTime).Seconds()

	var aiResult *models.Partial
	if req.ForceAI || (req.UseAI && Incomplete(regexResult)) {
		aiStart := time.Now()
		partial, err := s.ai.Extract(ctx, req.Text)
		resp.AIDuration = time.Since(aiStart).Seconds()
		if err != nil {
			s.logger.Warn("extraction.ai.fallback", zap.Error(err))
			resp.Warnings = append(resp.Warnings, err.Error())
		} else {
			aiResult = partial
		}
	}

	result := s.engine.Merge(regexResult, aiResult)
	resp.Invoice = result.Invoice
	resp.Method = result.Method
	resp.Provenance = result.Provenance
	resp.Missing = MissingFields(result.Invoice)
	resp.Confidence = validation.Confidence(result.Invoice)
	resp.TotalDuration = time.Since(startTime).Seconds()

	s.logger.Info("extraction.done",
		zap.String("method", string(resp.Method)),
		zap.Int("items", len(resp.Invoice.Items)),
		zap.Strings("missing", resp.Missing),
		zap.Float64("confidence", resp.Confidence),
		zap.Float64("seconds", resp.TotalDuration),
	)
	return resp
}

// Incomplete reports whether a partial lacks a client name, an amount or line items
func Incomplete(p *models.Partial) bool {
	if p == nil {
		return true
	}
	hasAmount := p.HasItems() || (p.Total.Valid && p.Total.Decimal.IsPositive()) ||
		(p.Subtotal.Valid && p.Subtotal.Decimal.IsPositive())
	return p.ClientName == "" || !hasAmount || !p.HasItems()
}

// MissingFields lists required fields absent from a finalized invoice
func MissingFields(inv *models.InvoiceData) []string {
	var missing []string
	if inv.ClientName == "" {
		missing = append(missing, FieldClientName)
	}
	if !inv.Total.Valid || !inv.Total.Decimal.IsPositive() {
		missing = append(missing, FieldAmount)
	}
	if len(inv.Items) == 0 {
		missing = append(missing, FieldItems)
	}
	return missing
}
