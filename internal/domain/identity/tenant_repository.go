package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	Save(ctx context.Context, tenant *Tenant) error
}

// TenantHandle is the lightweight view of a tenant used for batch fan-out
type TenantHandle struct {
	ID   uuid.UUID
	Code string
	Name string
}

// TenantDirectory lists the tenant stores a batch run must visit. The
// directory is authoritative at the start of each run; callers must not
// cache its answer across runs.
type TenantDirectory interface {
	ListTenants(ctx context.Context) ([]TenantHandle, error)
}
