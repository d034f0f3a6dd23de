package reconcile

import (
	"time"

	"github.com/facturaIA/paytext-invoice-service/internal/models"
)

// Result is a finalized invoice with the strategies that produced it
type Result struct {
	Invoice    *models.InvoiceData
	Method     models.Method
	Provenance Provenance
}

// Engine merges partial results using an injected clock for defaults
type Engine struct {
	now func() time.Time
}

// NewEngine creates an engine. A nil clock means time.Now.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Merge combines the partials, recomputes totals and fills defaults
func (e *Engine) Merge(partials ...*models.Partial) *Result {
	combined, prov := Combine(partials...)
	return &Result{
		Invoice:    Finalize(combined, prov, e.now()),
		Method:     methodFor(partials),
		Provenance: prov,
	}
}

// MergeExtractionResults merges a regex result with an optional AI result.
// A nil AI result means the AI extractor was skipped or failed.
func (e *Engine) MergeExtractionResults(regex, ai *models.Partial) *models.InvoiceData {
	return e.Merge(regex, ai).Invoice
}

// MergeExtractionResults merges using the wall clock
func MergeExtractionResults(regex, ai *models.Partial) *models.InvoiceData {
	return NewEngine(nil).MergeExtractionResults(regex, ai)
}

func methodFor(partials []*models.Partial) models.Method {
	var ai, regex bool
	for _, p := range partials {
		if !HasData(p) {
			continue
		}
		if p.Source == models.SourceAI {
			ai = true
		} else {
			regex = true
		}
	}
	switch {
	case ai && regex:
		return models.MethodHybrid
	case ai:
		return models.MethodAI
	case regex:
		return models.MethodRegex
	default:
		return models.MethodNone
	}
}
