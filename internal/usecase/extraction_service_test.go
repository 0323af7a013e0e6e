package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
	"github.com/sakhi383/Walmart-Cost-Splitter/internal/infrastructure/dom"
)

// MockDocumentSource is a mock implementation of domain.DocumentSource
type MockDocumentSource struct {
	doc   domain.Document
	err   error
	block bool
}

func (m *MockDocumentSource) Snapshot(ctx context.Context) (domain.Document, error) {
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.doc, m.err
}

func TestExtractionService_Extract(t *testing.T) {
	svc := NewExtractionService(ExtractionServiceConfig{Timeout: 50 * time.Millisecond}, nil)
	ctx := context.Background()

	t.Run("static snapshot", func(t *testing.T) {
		result, err := svc.Extract(ctx, dom.StaticSource{HTML: cartHTML, URL: cartURL})
		require.NoError(t, err)
		assert.Len(t, result.Items, 2)
		requireDecimal(t, "13.32", result.Total)
	})

	t.Run("page without items is not an error", func(t *testing.T) {
		result, err := svc.Extract(ctx, dom.StaticSource{HTML: "<p>hello</p>", URL: cartURL})
		require.NoError(t, err)
		assert.NotNil(t, result.Items)
		assert.Empty(t, result.Items)
	})

	tests := []struct {
		name string
		src  domain.DocumentSource
		want error
	}{
		{"nil source", nil, domain.ErrDocumentUnavailable},
		{"empty html", dom.StaticSource{HTML: "  "}, domain.ErrDocumentUnavailable},
		{"oversized snapshot", dom.StaticSource{HTML: cartHTML, MaxBytes: 10}, domain.ErrInvalidRequest},
		{"source failure is wrapped", &MockDocumentSource{err: errors.New("tab closed")}, domain.ErrDocumentUnavailable},
		{"nil document", &MockDocumentSource{}, domain.ErrDocumentUnavailable},
		{"timeout", &MockDocumentSource{block: true}, domain.ErrDocumentUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Extract(ctx, tt.src)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	t.Run("oversized snapshot is not document unavailable", func(t *testing.T) {
		_, err := svc.Extract(ctx, dom.StaticSource{HTML: cartHTML, MaxBytes: 10})
		assert.False(t, errors.Is(err, domain.ErrDocumentUnavailable))
	})
}

func TestNewExtractionService_DefaultTimeout(t *testing.T) {
	svc := NewExtractionService(ExtractionServiceConfig{}, nil)
	assert.Equal(t, 5*time.Second, svc.timeout)
}
