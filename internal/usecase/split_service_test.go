package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
)

// MockSessionRepository is a mock implementation of domain.SessionRepository
type MockSessionRepository struct {
	mu       sync.Mutex
	data     map[string]*domain.SplitSession
	ttls     map[string]time.Duration
	getError error
	setError error
	saves    int
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		data: make(map[string]*domain.SplitSession),
		ttls: make(map[string]time.Duration),
	}
}

func (m *MockSessionRepository) Get(ctx context.Context, id string) (*domain.SplitSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	s, ok := m.data[id]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return cloneSession(s), nil
}

func (m *MockSessionRepository) Save(ctx context.Context, s *domain.SplitSession, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setError != nil {
		return m.setError
	}
	m.saves++
	m.data[s.ID] = cloneSession(s)
	m.ttls[s.ID] = ttl
	return nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func newTestSplitService(repo domain.SessionRepository) *SplitService {
	svc := NewSplitService(repo, SplitServiceConfig{
		SessionTTL:     time.Hour,
		MaxPeople:      4,
		DefaultTaxRate: dec("8.25"),
	}, nil)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc
}

func createSession(t *testing.T, svc *SplitService, people ...domain.Person) *domain.SessionView {
	t.Helper()
	view, err := svc.Create(context.Background(), &domain.CreateSessionRequest{
		People:     people,
		Extraction: *sampleExtraction(),
	})
	require.NoError(t, err)
	return view
}

func TestSplitService_Create(t *testing.T) {
	repo := NewMockSessionRepository()
	svc := newTestSplitService(repo)

	t.Run("stores the session with defaults", func(t *testing.T) {
		view := createSession(t, svc, "Ava", "Ben")

		require.NotEmpty(t, view.Session.ID)
		assert.Equal(t, time.Hour, repo.ttls[view.Session.ID])
		requireDecimal(t, "8.25", view.Session.TaxRate)
		assert.Equal(t, svc.now(), view.Session.CreatedAt)
		require.Len(t, view.Allocation.Shares, 2)
		assert.True(t, view.Allocation.Sum().Equal(view.Allocation.GrandTotal))
	})

	t.Run("parses people input and explicit rate", func(t *testing.T) {
		rate := decimal.Zero
		view, err := svc.Create(context.Background(), &domain.CreateSessionRequest{
			PeopleInput: "Ava, Ben,,Cam",
			TaxRate:     &rate,
			Extraction:  *sampleExtraction(),
		})
		require.NoError(t, err)
		assert.Equal(t, []domain.Person{"Ava", "Ben", "Cam"}, view.Session.People)
		assert.True(t, view.Session.TaxRate.IsZero())
	})

	t.Run("validation", func(t *testing.T) {
		neg := dec("-1")
		tests := []struct {
			name string
			req  *domain.CreateSessionRequest
			want error
		}{
			{"nil request", nil, domain.ErrInvalidRequest},
			{"no people", &domain.CreateSessionRequest{}, domain.ErrNoPeople},
			{"duplicate", &domain.CreateSessionRequest{People: []domain.Person{"Ava", "Ava"}}, domain.ErrDuplicatePerson},
			{"too many", &domain.CreateSessionRequest{PeopleInput: "a,b,c,d,e"}, domain.ErrInvalidRequest},
			{"negative rate", &domain.CreateSessionRequest{People: []domain.Person{"Ava"}, TaxRate: &neg}, domain.ErrNegativeTaxRate},
			{"non-positive price", &domain.CreateSessionRequest{
				People:     []domain.Person{"Ava"},
				Extraction: domain.ExtractionResult{Items: []domain.ExtractedRecord{{Title: "Milk", UnitPrice: dec("-3.48"), Qty: 1}}},
			}, domain.ErrInvalidRequest},
			{"non-positive quantity", &domain.CreateSessionRequest{
				People:     []domain.Person{"Ava"},
				Extraction: domain.ExtractionResult{Items: []domain.ExtractedRecord{{Title: "Milk", UnitPrice: dec("3.48"), Qty: 0}}},
			}, domain.ErrInvalidRequest},
			{"negative shipping", &domain.CreateSessionRequest{
				People:     []domain.Person{"Ava"},
				Extraction: domain.ExtractionResult{Fees: domain.Fees{Shipping: dec("-5.99")}},
			}, domain.ErrInvalidRequest},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Create(context.Background(), tt.req)
				assert.True(t, errors.Is(err, tt.want), "got %v", err)
			})
		}
	})

	t.Run("stores discount as a reduction", func(t *testing.T) {
		extraction := *sampleExtraction()
		extraction.Fees.Discount = dec("1")
		view, err := svc.Create(context.Background(), &domain.CreateSessionRequest{
			People:     []domain.Person{"Ava"},
			Extraction: extraction,
		})
		require.NoError(t, err)
		requireDecimal(t, "-1", view.Session.Fees.Discount)
		requireDecimal(t, "-1", view.Allocation.Discount)
	})

	t.Run("save failure", func(t *testing.T) {
		failing := NewMockSessionRepository()
		failing.setError = errors.New("disk full")
		_, err := newTestSplitService(failing).Create(context.Background(), &domain.CreateSessionRequest{People: []domain.Person{"Ava"}})
		assert.ErrorContains(t, err, "disk full")
	})
}

func TestSplitService_Edits(t *testing.T) {
	ctx := context.Background()
	repo := NewMockSessionRepository()
	svc := newTestSplitService(repo)
	id := createSession(t, svc, "Ava", "Ben").Session.ID

	view, err := svc.AssignOnly(ctx, id, 0, "Ben")
	require.NoError(t, err)
	assert.Equal(t, []domain.Person{"Ben"}, view.Session.Items[0].Assigned)

	view, err = svc.AssignOnly(ctx, id, 1, "")
	require.NoError(t, err)
	assert.Equal(t, []domain.Person{"Ava"}, view.Session.Items[1].Assigned, "empty person means me")

	view, err = svc.SetTaxRate(ctx, id, decimal.Zero)
	require.NoError(t, err)
	ava, _ := view.Allocation.Share("Ava")
	ben, _ := view.Allocation.Share("Ben")
	requireDecimal(t, "0.75", ava.Pre)
	requireDecimal(t, "6.96", ben.Pre)

	view, err = svc.Toggle(ctx, id, 0, "Ava", nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.Person{"Ben", "Ava"}, view.Session.Items[0].Assigned)

	off := false
	view, err = svc.Toggle(ctx, id, 0, "Ava", &off)
	require.NoError(t, err)
	assert.Equal(t, []domain.Person{"Ben"}, view.Session.Items[0].Assigned)

	view, err = svc.AssignEveryone(ctx, id, 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.Person{"Ava", "Ben"}, view.Session.Items[0].Assigned)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, view.Session.Items, got.Session.Items, "edits are persisted")

	t.Run("errors", func(t *testing.T) {
		_, err := svc.Toggle(ctx, id, 9, "Ava", nil)
		assert.True(t, errors.Is(err, domain.ErrItemNotFound))
		_, err = svc.AssignOnly(ctx, id, 0, "Zed")
		assert.True(t, errors.Is(err, domain.ErrUnknownPerson))
		_, err = svc.SetTaxRate(ctx, id, dec("-2"))
		assert.True(t, errors.Is(err, domain.ErrNegativeTaxRate))
		_, err = svc.Get(ctx, "missing")
		assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
		_, err = svc.Get(ctx, "")
		assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
	})

	t.Run("failed edit is not saved", func(t *testing.T) {
		before := repo.saves
		_, _ = svc.AssignOnly(ctx, id, 0, "Zed")
		assert.Equal(t, before, repo.saves)
	})

	t.Run("repository error passes through", func(t *testing.T) {
		broken := NewMockSessionRepository()
		broken.getError = errors.New("backend down")
		_, err := newTestSplitService(broken).Get(ctx, "x")
		assert.ErrorContains(t, err, "backend down")
		assert.False(t, errors.Is(err, domain.ErrSessionNotFound))
	})
}

func TestSplitService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newTestSplitService(NewMockSessionRepository())
	id := createSession(t, svc, "Ava").Session.ID

	require.NoError(t, svc.Delete(ctx, id))
	_, err := svc.Get(ctx, id)
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, id), domain.ErrSessionNotFound))
}

func TestSplitService_ConcurrentToggles(t *testing.T) {
	ctx := context.Background()
	svc := newTestSplitService(NewMockSessionRepository())
	id := createSession(t, svc, "Ava", "Ben").Session.ID

	// An even number of toggles per person leaves the group as it started
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(p domain.Person) {
			defer wg.Done()
			_, err := svc.Toggle(ctx, id, 0, p, nil)
			assert.NoError(t, err)
		}([]domain.Person{"Ava", "Ben"}[i%2])
	}
	wg.Wait()

	view, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Person{"Ava", "Ben"}, view.Session.Items[0].Assigned)
}

func TestSplitService_Split(t *testing.T) {
	svc := newTestSplitService(NewMockSessionRepository())

	alloc, err := svc.Split(&domain.SplitRequest{
		People:  []domain.Person{"Ava", "Ben", "Cam"},
		TaxRate: decimal.Zero,
		Items:   []domain.AssignableItem{item("30.00", 1)},
	})
	require.NoError(t, err)
	for _, s := range alloc.Shares {
		requireDecimal(t, "10", s.Total)
	}

	_, err = svc.Split(nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
	_, err = svc.Split(&domain.SplitRequest{People: []domain.Person{"Ava"}, TaxRate: dec("-1")})
	assert.True(t, errors.Is(err, domain.ErrNegativeTaxRate))
	_, err = svc.Split(&domain.SplitRequest{People: []domain.Person{"Ava", "Ava"}})
	assert.True(t, errors.Is(err, domain.ErrDuplicatePerson))

	empty, err := svc.Split(&domain.SplitRequest{Items: []domain.AssignableItem{item("1.00", 1)}})
	require.NoError(t, err)
	assert.Empty(t, empty.Shares)

	t.Run("rejects lines and fees that cannot be split", func(t *testing.T) {
		people := []domain.Person{"Ava", "Ben"}
		tests := []struct {
			name  string
			items []domain.AssignableItem
			fees  domain.Fees
		}{
			{"negative price", []domain.AssignableItem{item("-5", 2)}, domain.Fees{}},
			{"zero price", []domain.AssignableItem{item("0", 1)}, domain.Fees{}},
			{"negative quantity", []domain.AssignableItem{item("3", -4)}, domain.Fees{}},
			{"zero quantity", []domain.AssignableItem{item("3", 0)}, domain.Fees{}},
			{"negative shipping", []domain.AssignableItem{item("3", 1)}, domain.Fees{Shipping: dec("-3")}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Split(&domain.SplitRequest{People: people, Items: tt.items, Fees: tt.fees})
				assert.True(t, errors.Is(err, domain.ErrInvalidRequest), "got %v", err)
			})
		}
	})

	t.Run("positive discount is treated as a reduction", func(t *testing.T) {
		alloc, err := svc.Split(&domain.SplitRequest{
			People: []domain.Person{"Ava", "Ben"},
			Items:  []domain.AssignableItem{item("10.00", 1)},
			Fees:   domain.Fees{Discount: dec("2")},
		})
		require.NoError(t, err)
		requireDecimal(t, "-2", alloc.Discount)
		requireDecimal(t, "8", alloc.GrandTotal)
		assert.True(t, alloc.Sum().Equal(alloc.GrandTotal))
	})
}
