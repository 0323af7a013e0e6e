package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
)

// SplitServiceConfig holds configuration for the split service
type SplitServiceConfig struct {
	SessionTTL     time.Duration
	MaxPeople      int
	DefaultTaxRate decimal.Decimal
}

// SplitService keeps split sessions and recomputes allocations after every edit
type SplitService struct {
	repo           domain.SessionRepository
	sessionTTL     time.Duration
	maxPeople      int
	defaultTaxRate decimal.Decimal
	logger         *zap.Logger
	now            func() time.Time

	// edits are serialized so a read-modify-write never interleaves
	mu sync.Mutex
}

// NewSplitService creates a new split service with dependencies
func NewSplitService(repo domain.SessionRepository, config SplitServiceConfig, logger *zap.Logger) *SplitService {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := config.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SplitService{
		repo:           repo,
		sessionTTL:     ttl,
		maxPeople:      config.MaxPeople,
		defaultTaxRate: config.DefaultTaxRate,
		logger:         logger,
		now:            time.Now,
	}
}

// Split computes an allocation without storing anything
func (s *SplitService) Split(request *domain.SplitRequest) (domain.Allocation, error) {
	if request == nil {
		return domain.Allocation{}, domain.ErrInvalidRequest
	}
	if request.TaxRate.IsNegative() {
		return domain.Allocation{}, domain.ErrNegativeTaxRate
	}
	if len(request.People) > 0 {
		if err := ValidatePeople(request.People, s.maxPeople); err != nil {
			return domain.Allocation{}, err
		}
	}
	for i, it := range request.Items {
		if err := ValidateRecord(i, it.ExtractedRecord); err != nil {
			return domain.Allocation{}, err
		}
	}
	fees, err := NormalizeFees(request.Fees)
	if err != nil {
		return domain.Allocation{}, err
	}
	return Allocate(request.Items, request.People, request.TaxRate, fees), nil
}

// Create starts a session from an extraction result
func (s *SplitService) Create(ctx context.Context, request *domain.CreateSessionRequest) (*domain.SessionView, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	people := request.People
	if len(people) == 0 && request.PeopleInput != "" {
		people = ParsePeople(request.PeopleInput)
	}
	if err := ValidatePeople(people, s.maxPeople); err != nil {
		return nil, err
	}

	rate := s.defaultTaxRate
	if request.TaxRate != nil {
		rate = *request.TaxRate
	}
	if rate.IsNegative() {
		return nil, domain.ErrNegativeTaxRate
	}

	extraction := request.Extraction
	for i, it := range extraction.Items {
		if err := ValidateRecord(i, it); err != nil {
			return nil, err
		}
	}
	fees, err := NormalizeFees(extraction.Fees)
	if err != nil {
		return nil, err
	}
	extraction.Fees = fees

	session := NewSplitState(people, rate, &extraction)
	session.ID = uuid.NewString()
	session.CreatedAt = s.now()
	session.UpdatedAt = session.CreatedAt

	if err := s.repo.Save(ctx, session, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("split session created",
		zap.String("session", session.ID),
		zap.Int("people", len(session.People)),
		zap.Int("items", len(session.Items)),
	)
	return view(session), nil
}

// Get loads a session and recomputes its allocation
func (s *SplitService) Get(ctx context.Context, id string) (*domain.SessionView, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return view(session), nil
}

// Delete drops a session
func (s *SplitService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Toggle flips a person on an item, or sets them explicitly when assigned is non-nil
func (s *SplitService) Toggle(ctx context.Context, id string, item int, person domain.Person, assigned *bool) (*domain.SessionView, error) {
	return s.edit(ctx, id, func(cur *domain.SplitSession) (*domain.SplitSession, error) {
		if assigned != nil {
			return SetPersonAssigned(cur, item, person, *assigned)
		}
		return TogglePerson(cur, item, person)
	})
}

// AssignOnly gives an item to one person; an empty person means the first one
func (s *SplitService) AssignOnly(ctx context.Context, id string, item int, person domain.Person) (*domain.SessionView, error) {
	return s.edit(ctx, id, func(cur *domain.SplitSession) (*domain.SplitSession, error) {
		if person == "" {
			return AssignToMe(cur, item)
		}
		return AssignOnly(cur, item, person)
	})
}

// AssignEveryone splits an item across all people
func (s *SplitService) AssignEveryone(ctx context.Context, id string, item int) (*domain.SessionView, error) {
	return s.edit(ctx, id, func(cur *domain.SplitSession) (*domain.SplitSession, error) {
		return AssignEveryone(cur, item)
	})
}

// SetTaxRate changes the global tax rate of a session
func (s *SplitService) SetTaxRate(ctx context.Context, id string, rate decimal.Decimal) (*domain.SessionView, error) {
	return s.edit(ctx, id, func(cur *domain.SplitSession) (*domain.SplitSession, error) {
		return SetTaxRate(cur, rate)
	})
}

// edit applies one pure state transition and stores the result
func (s *SplitService) edit(ctx context.Context, id string, apply func(*domain.SplitSession) (*domain.SplitSession, error)) (*domain.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := apply(cur)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, next, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return view(next), nil
}

func (s *SplitService) load(ctx context.Context, id string) (*domain.SplitSession, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) || errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		return nil, err
	}
	return session, nil
}

func view(session *domain.SplitSession) *domain.SessionView {
	return &domain.SessionView{
		Session:    session,
		Allocation: AllocateSession(session),
	}
}
