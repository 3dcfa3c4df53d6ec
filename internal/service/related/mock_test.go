package related

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/relatedwords/internal/domain"
)

// relatedRepoMock is a hand-written mock of relatedRepo in the style of moq.
type relatedRepoMock struct {
	CreateFunc      func(ctx context.Context, rec *domain.Related) (*domain.StoredRelated, error)
	CreateBatchFunc func(ctx context.Context, recs []*domain.Related) (int, error)
	GetByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.StoredRelated, error)
	FindFunc        func(ctx context.Context, f domain.RelatedFilter) ([]domain.StoredRelated, error)
	DeleteFunc      func(ctx context.Context, id uuid.UUID) error

	mu    sync.Mutex
	calls struct {
		CreateBatch []struct{ Recs []*domain.Related }
		Find        []struct{ Filter domain.RelatedFilter }
	}
}

func (m *relatedRepoMock) Create(ctx context.Context, rec *domain.Related) (*domain.StoredRelated, error) {
	if m.CreateFunc == nil {
		panic("relatedRepoMock.CreateFunc: method is nil but relatedRepo.Create was just called")
	}
	return m.CreateFunc(ctx, rec)
}

func (m *relatedRepoMock) CreateBatch(ctx context.Context, recs []*domain.Related) (int, error) {
	if m.CreateBatchFunc == nil {
		panic("relatedRepoMock.CreateBatchFunc: method is nil but relatedRepo.CreateBatch was just called")
	}
	m.mu.Lock()
	m.calls.CreateBatch = append(m.calls.CreateBatch, struct{ Recs []*domain.Related }{recs})
	m.mu.Unlock()
	return m.CreateBatchFunc(ctx, recs)
}

func (m *relatedRepoMock) CreateBatchCalls() []struct{ Recs []*domain.Related } {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.CreateBatch
}

func (m *relatedRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredRelated, error) {
	if m.GetByIDFunc == nil {
		panic("relatedRepoMock.GetByIDFunc: method is nil but relatedRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *relatedRepoMock) Find(ctx context.Context, f domain.RelatedFilter) ([]domain.StoredRelated, error) {
	if m.FindFunc == nil {
		panic("relatedRepoMock.FindFunc: method is nil but relatedRepo.Find was just called")
	}
	m.mu.Lock()
	m.calls.Find = append(m.calls.Find, struct{ Filter domain.RelatedFilter }{f})
	m.mu.Unlock()
	return m.FindFunc(ctx, f)
}

func (m *relatedRepoMock) FindCalls() []struct{ Filter domain.RelatedFilter } {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Find
}

func (m *relatedRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc == nil {
		panic("relatedRepoMock.DeleteFunc: method is nil but relatedRepo.Delete was just called")
	}
	return m.DeleteFunc(ctx, id)
}
