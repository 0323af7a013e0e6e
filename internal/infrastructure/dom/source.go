package dom

import (
	"context"
	"fmt"
	"strings"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
)

// StaticSource serves a snapshot that was captured elsewhere, e.g. posted by
// the extension or read from a file
type StaticSource struct {
	HTML     string
	URL      string
	MaxBytes int64 // 0 means unlimited
}

var _ domain.DocumentSource = StaticSource{}

// Snapshot parses the HTML. An empty body means there was no page to read.
func (s StaticSource) Snapshot(ctx context.Context) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.HTML) == "" {
		return nil, fmt.Errorf("%w: empty html", domain.ErrDocumentUnavailable)
	}
	if s.MaxBytes > 0 && int64(len(s.HTML)) > s.MaxBytes {
		return nil, fmt.Errorf("%w: snapshot of %d bytes exceeds limit %d", domain.ErrInvalidRequest, len(s.HTML), s.MaxBytes)
	}
	return ParseString(s.HTML, s.URL)
}
