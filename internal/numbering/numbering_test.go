package numbering

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturaIA/paytext-invoice-service/internal/storage"
	mock_storage "github.com/facturaIA/paytext-invoice-service/internal/storage/mocks"
)

func clockAt(year int) func() time.Time {
	return func() time.Time { return time.Date(year, 3, 1, 9, 0, 0, 0, time.UTC) }
}

func seeded(t *testing.T, value string) *storage.MemoryStore {
	t.Helper()
	s := storage.NewMemoryStore()
	if value != "" {
		require.NoError(t, s.Set(context.Background(), storage.KeyLastInvoiceNumber, value))
	}
	return s
}

func TestFormatParse_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		year := 1000 + r.Intn(9000)
		seq := 1 + r.Intn(100000)
		n, err := Parse(DefaultPrefix, Format(DefaultPrefix, year, seq))
		require.NoError(t, err)
		assert.Equal(t, Number{Year: year, Sequence: seq}, n)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "INV-2024-001", Format("INV", 2024, 1))
	assert.Equal(t, "INV-2024-999", Format("INV", 2024, 999))
	assert.Equal(t, "INV-2024-1000", Format("INV", 2024, 1000))
	assert.Equal(t, "ACME-2025-042", Format("ACME", 2025, 42))
}

func TestFormat_YearRange(t *testing.T) {
	for _, year := range []int{0, 9999} {
		n, err := Parse(DefaultPrefix, Format(DefaultPrefix, year, 1))
		require.NoError(t, err)
		assert.Equal(t, year, n.Year)
	}

	_, err := Parse(DefaultPrefix, Format(DefaultPrefix, 10000, 1))
	assert.ErrorIs(t, err, ErrMalformedSequence)
}

func TestParse_Malformed(t *testing.T) {
	for _, s := range []string{
		"",
		"INV-2024-01",
		"INV-24-001",
		"inv-2024-001",
		"INV-2024-001x",
		"XINV-2024-001",
		"BILL-2024-001",
		"INV-2024-000",
		"INV-2024-99999999999999999999999",
	} {
		t.Run(s, func(t *testing.T) {
			_, err := Parse(DefaultPrefix, s)
			assert.ErrorIs(t, err, ErrMalformedSequence)
		})
	}
}

func TestParse_PrefixIsLiteral(t *testing.T) {
	_, err := Parse("A.B", "AxB-2024-001")
	assert.ErrorIs(t, err, ErrMalformedSequence)

	n, err := Parse("A.B", "A.B-2024-001")
	require.NoError(t, err)
	assert.Equal(t, 1, n.Sequence)
}

func TestGenerateNext(t *testing.T) {
	tests := []struct {
		name string
		last string
		year int
		want string
	}{
		{"no history", "", 2024, "INV-2024-001"},
		{"same year", "INV-2024-005", 2024, "INV-2024-006"},
		{"year rollover", "INV-2023-999", 2024, "INV-2024-001"},
		{"rollover ignores old suffix", "INV-2019-042", 2024, "INV-2024-001"},
		{"grows past 999", "INV-2024-999", 2024, "INV-2024-1000"},
		{"future year continues sequence", "INV-2025-007", 2024, "INV-2024-008"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seeded(t, tt.last)
			svc := NewService(store, WithClock(clockAt(tt.year)))

			got, err := svc.GenerateNext(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			persisted, err := store.Get(context.Background(), storage.KeyLastInvoiceNumber)
			require.NoError(t, err)
			assert.Equal(t, tt.want, persisted)
		})
	}
}

func TestGenerateNext_Monotonic(t *testing.T) {
	svc := NewService(storage.NewMemoryStore(), WithClock(clockAt(2024)))

	prev := 0
	for i := 0; i < 1200; i++ {
		s, err := svc.GenerateNext(context.Background())
		require.NoError(t, err)
		n, err := svc.Parse(s)
		require.NoError(t, err)
		assert.Equal(t, 2024, n.Year)
		assert.Equal(t, prev+1, n.Sequence)
		prev = n.Sequence
	}
}

func TestGenerateNext_CustomPrefix(t *testing.T) {
	svc := NewService(seeded(t, "ACME-2024-010"), WithPrefix("ACME"), WithClock(clockAt(2024)))
	got, err := svc.GenerateNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ACME-2024-011", got)
}

func TestGenerateNext_MalformedIsFatal(t *testing.T) {
	store := seeded(t, "INV-2024-abc")
	svc := NewService(store, WithClock(clockAt(2024)))

	_, err := svc.GenerateNext(context.Background())
	assert.ErrorIs(t, err, ErrMalformedSequence)

	// the corrupted value is left untouched
	v, _ := store.Get(context.Background(), storage.KeyLastInvoiceNumber)
	assert.Equal(t, "INV-2024-abc", v)
}

func TestGenerateNext_StoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)

	t.Run("read", func(t *testing.T) {
		store := mock_storage.NewMockStore(ctrl)
		store.EXPECT().Get(gomock.Any(), storage.KeyLastInvoiceNumber).Return("", errors.New("connection reset"))

		_, err := NewService(store).GenerateNext(context.Background())
		assert.ErrorContains(t, err, "connection reset")
	})

	t.Run("write", func(t *testing.T) {
		store := mock_storage.NewMockStore(ctrl)
		store.EXPECT().Get(gomock.Any(), storage.KeyLastInvoiceNumber).Return("INV-2024-001", nil)
		store.EXPECT().Set(gomock.Any(), storage.KeyLastInvoiceNumber, "INV-2024-002").Return(errors.New("disk full"))

		_, err := NewService(store, WithClock(clockAt(2024))).GenerateNext(context.Background())
		assert.ErrorContains(t, err, "disk full")
	})
}
