package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
)

// ExtractionServiceConfig holds configuration for the extraction service
type ExtractionServiceConfig struct {
	Timeout          time.Duration
	MaxAncestorDepth int
}

// ExtractionService answers extraction requests against a document source
type ExtractionService struct {
	extractor *Extractor
	timeout   time.Duration
	logger    *zap.Logger
}

// NewExtractionService creates a new extraction service
func NewExtractionService(config ExtractionServiceConfig, logger *zap.Logger) *ExtractionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ExtractionService{
		extractor: NewExtractor(config.MaxAncestorDepth, logger),
		timeout:   timeout,
		logger:    logger,
	}
}

type snapshotResult struct {
	doc domain.Document
	err error
}

// Extract samples the source once and runs a full extraction pass.
// It fails with ErrDocumentUnavailable when the document cannot be read or
// the snapshot does not arrive within the configured timeout.
func (s *ExtractionService) Extract(ctx context.Context, src domain.DocumentSource) (*domain.ExtractionResult, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no document source", domain.ErrDocumentUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan snapshotResult, 1)
	go func() {
		doc, err := src.Snapshot(ctx)
		done <- snapshotResult{doc: doc, err: err}
	}()

	var snap snapshotResult
	select {
	case <-ctx.Done():
		s.logger.Warn("document snapshot timed out", zap.Duration("timeout", s.timeout))
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentUnavailable, ctx.Err())
	case snap = <-done:
	}

	if snap.err != nil {
		s.logger.Warn("document snapshot failed", zap.Error(snap.err))
		if errors.Is(snap.err, domain.ErrDocumentUnavailable) || errors.Is(snap.err, domain.ErrInvalidRequest) {
			return nil, snap.err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentUnavailable, snap.err)
	}
	if snap.doc == nil {
		return nil, fmt.Errorf("%w: empty snapshot", domain.ErrDocumentUnavailable)
	}

	result := s.extractor.Extract(snap.doc)
	s.logger.Info("extracted items",
		zap.String("url", result.URL),
		zap.String("view", string(result.View)),
		zap.Int("items", len(result.Items)),
		zap.String("subtotal", result.Subtotal.StringFixed(3)),
	)
	return result, nil
}
