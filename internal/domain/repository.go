package domain

import (
	"context"
	"time"
)

// SessionRepository stores split sessions between edits
type SessionRepository interface {
	Get(ctx context.Context, id string) (*SplitSession, error)
	Save(ctx context.Context, session *SplitSession, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
