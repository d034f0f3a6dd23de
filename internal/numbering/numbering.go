// Package numbering generates sequential invoice numbers of the form
// PREFIX-YYYY-NNN, restarting at 001 every calendar year.
package numbering

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/facturaIA/paytext-invoice-service/internal/storage"
)

// DefaultPrefix is used when none is configured
const DefaultPrefix = "INV"

// ErrMalformedSequence means the persisted last number cannot be parsed.
// It is never recovered from by resetting the sequence.
var ErrMalformedSequence = errors.New("malformed invoice number")

// Number is a parsed invoice number
type Number struct {
	Year     int `json:"year"`
	Sequence int `json:"sequence"`
}

// Format renders year and sequence; the sequence is padded to at least 3 digits.
// Years outside 0..9999 do not fit YYYY and will not Parse back.
func Format(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%04d-%03d", prefix, year, seq)
}

// Parse is the inverse of Format
func Parse(prefix, s string) (Number, error) {
	re, err := regexp.Compile(`^` + regexp.QuoteMeta(prefix) + `-(\d{4})-(\d{3,})$`)
	if err != nil {
		return Number{}, fmt.Errorf("invalid prefix %q: %w", prefix, err)
	}
	m := re.FindStringSubmatch(s)
	if m == nil {
		return Number{}, fmt.Errorf("%w: %q does not match %s-YYYY-NNN", ErrMalformedSequence, s, prefix)
	}
	year, _ := strconv.Atoi(m[1])
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return Number{}, fmt.Errorf("%w: sequence %q out of range", ErrMalformedSequence, m[2])
	}
	if seq < 1 {
		return Number{}, fmt.Errorf("%w: sequence in %q must start at 1", ErrMalformedSequence, s)
	}
	return Number{Year: year, Sequence: seq}, nil
}

// Service hands out invoice numbers backed by one storage slot. Callers must
// not run GenerateNext concurrently against the same store.
type Service struct {
	store  storage.Store
	prefix string
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithPrefix sets the number prefix
func WithPrefix(prefix string) Option {
	return func(s *Service) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithClock sets the clock that decides the current year
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a numbering service
func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		prefix: DefaultPrefix,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prefix returns the configured prefix
func (s *Service) Prefix() string {
	return s.prefix
}

// Format renders a number with the service prefix
func (s *Service) Format(year, seq int) string {
	return Format(s.prefix, year, seq)
}

// Parse parses a number with the service prefix
func (s *Service) Parse(value string) (Number, error) {
	return Parse(s.prefix, value)
}

// GenerateNext returns the next number and persists it before returning
func (s *Service) GenerateNext(ctx context.Context) (string, error) {
	year := s.now().Year()

	last, err := s.store.Get(ctx, storage.KeyLastInvoiceNumber)
	var next string
	switch {
	case errors.Is(err, storage.ErrNotFound):
		next = s.Format(year, 1)

	case err != nil:
		return "", fmt.Errorf("failed to read last invoice number: %w", err)

	default:
		n, err := s.Parse(last)
		if err != nil {
			s.logger.Error("numbering.state.malformed", zap.String("value", last), zap.Error(err))
			return "", err
		}
		if n.Year < year {
			next = s.Format(year, 1)
		} else {
			next = s.Format(year, n.Sequence+1)
		}
	}

	if err := s.store.Set(ctx, storage.KeyLastInvoiceNumber, next); err != nil {
		return "", fmt.Errorf("failed to persist invoice number: %w", err)
	}
	s.logger.Info("numbering.next", zap.String("previous", last), zap.String("number", next))
	return next, nil
}
