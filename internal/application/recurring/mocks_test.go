package recurring

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/retailpos/backend/internal/domain/expense"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
)

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*expense.RecurringTemplate, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*expense.RecurringTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter expense.TemplateFilter) ([]expense.RecurringTemplate, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]expense.RecurringTemplate), args.Error(1)
}

func (m *MockTemplateRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter expense.TemplateFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTemplateRepository) FindDue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]expense.RecurringTemplate, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]expense.RecurringTemplate), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, template *expense.RecurringTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*expense.Expense, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*expense.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*expense.Expense, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*expense.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindByTemplate(ctx context.Context, tenantID, templateID uuid.UUID) ([]expense.Expense, error) {
	args := m.Called(ctx, tenantID, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]expense.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, exp *expense.Expense) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExpenseRepository) NextExpenseNumber(ctx context.Context, tenantID uuid.UUID, year int) (string, error) {
	args := m.Called(ctx, tenantID, year)
	return args.String(0), args.Error(1)
}

type MockGenerationUnitOfWork struct {
	mock.Mock
}

func (m *MockGenerationUnitOfWork) CommitGeneration(ctx context.Context, exp *expense.Expense, templateID uuid.UUID, previousDue, nextDue time.Time) error {
	args := m.Called(ctx, exp, templateID, previousDue, nextDue)
	return args.Error(0)
}

type MockTenantDirectory struct {
	mock.Mock
}

func (m *MockTenantDirectory) ListTenants(ctx context.Context) ([]identity.TenantHandle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.TenantHandle), args.Error(1)
}

type MockTenantRunner struct {
	mock.Mock
}

func (m *MockTenantRunner) ProcessTenant(ctx context.Context, tenant identity.TenantHandle, asOf time.Time) (TenantRunResult, error) {
	args := m.Called(ctx, tenant, asOf)
	return args.Get(0).(TenantRunResult), args.Error(1)
}

type MockCategoryLookup struct {
	mock.Mock
}

func (m *MockCategoryLookup) CategoryName(ctx context.Context, tenantID, categoryID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID, categoryID)
	return args.String(0), args.Error(1)
}

type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) UserName(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// fakeIdempotencyStore is a map-backed store for processor tests; it records
// reserve and release traffic so tests can assert on retry behavior.
type fakeIdempotencyStore struct {
	mu       sync.Mutex
	keys     map[string]bool
	released []string
	failWith error
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: make(map[string]bool)}
}

func (s *fakeIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return false, s.failWith
	}
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *fakeIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	s.released = append(s.released, key)
	return nil
}

func (s *fakeIdempotencyStore) Close() error { return nil }
