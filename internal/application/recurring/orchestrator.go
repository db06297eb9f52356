package recurring

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/identity"
)

// TenantRunner processes one tenant's due templates. Satisfied by
// TenantProcessor; narrowed to an interface so the orchestrator can be tested
// without a database.
type TenantRunner interface {
	ProcessTenant(ctx context.Context, tenant identity.TenantHandle, asOf time.Time) (TenantRunResult, error)
}

// OrchestratorConfig bounds the fan-out of one run
type OrchestratorConfig struct {
	// TenantConcurrency caps how many tenants are processed at once
	TenantConcurrency int
	// TenantTimeout bounds one tenant's processing pass; zero disables it
	TenantTimeout time.Duration
}

// DefaultOrchestratorConfig returns the default orchestrator configuration
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		TenantConcurrency: 4,
		TenantTimeout:     5 * time.Minute,
	}
}

// Orchestrator runs the recurring expense engine across every tenant the
// directory reports. Tenants share nothing but the aggregate result, so they
// are fanned out concurrently under a bound; a failing tenant is recorded and
// contained, never halting the others.
type Orchestrator struct {
	directory identity.TenantDirectory
	runner    TenantRunner
	config    OrchestratorConfig
	logger    *zap.Logger
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(
	directory identity.TenantDirectory,
	runner TenantRunner,
	config OrchestratorConfig,
	logger *zap.Logger,
) *Orchestrator {
	if config.TenantConcurrency < 1 {
		config.TenantConcurrency = 1
	}
	return &Orchestrator{
		directory: directory,
		runner:    runner,
		config:    config,
		logger:    logger,
	}
}

// Run processes every tenant as of the given date and returns the aggregated
// result. The tenant set is re-discovered on every call; directory answers are
// never cached across runs. Run returns an error only when discovery itself
// fails, in which case nothing was processed.
func (o *Orchestrator) Run(ctx context.Context, asOf time.Time) (AggregateRunResult, error) {
	result := AggregateRunResult{
		AsOf:      asOf,
		StartedAt: time.Now(),
	}

	tenants, err := o.directory.ListTenants(ctx)
	if err != nil {
		return result, fmt.Errorf("list tenants: %w", err)
	}
	result.TenantsTotal = len(tenants)

	o.logger.Info("recurring expense run started",
		zap.Time("as_of", asOf),
		zap.Int("tenants", len(tenants)))

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, o.config.TenantConcurrency)
	)

	for _, tenant := range tenants {
		wg.Add(1)
		sem <- struct{}{}
		go func(tenant identity.TenantHandle) {
			defer wg.Done()
			defer func() { <-sem }()

			tenantResult, runErr := o.runTenant(ctx, tenant, asOf)

			mu.Lock()
			defer mu.Unlock()
			result.Tenants = append(result.Tenants, tenantResult)
			result.TemplatesDue += tenantResult.TemplatesDue
			result.ExpensesCreated += tenantResult.ExpensesCreated
			result.Errors = append(result.Errors, tenantResult.Errors...)
			if runErr != nil {
				result.TenantsFailed++
				result.Errors = append(result.Errors, ProcessingError{
					TenantID: tenant.ID,
					Message:  runErr.Error(),
				})
			}
		}(tenant)
	}
	wg.Wait()

	// Goroutine completion order is not deterministic
	sort.Slice(result.Tenants, func(i, j int) bool {
		return result.Tenants[i].TenantCode < result.Tenants[j].TenantCode
	})

	result.FinishedAt = time.Now()

	o.logger.Info("recurring expense run finished",
		zap.Time("as_of", asOf),
		zap.Int("tenants", result.TenantsTotal),
		zap.Int("tenants_failed", result.TenantsFailed),
		zap.Int("templates_due", result.TemplatesDue),
		zap.Int("expenses_created", result.ExpensesCreated),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)))

	return result, nil
}

// runTenant invokes the tenant runner under the per-tenant timeout with
// panic containment, so a misbehaving tenant store cannot take down the run.
func (o *Orchestrator) runTenant(ctx context.Context, tenant identity.TenantHandle, asOf time.Time) (result TenantRunResult, err error) {
	if o.config.TenantTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.TenantTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			result.TenantID = tenant.ID
			result.TenantCode = tenant.Code
			err = fmt.Errorf("panic: %v", r)
			o.logger.Error("tenant processing panicked",
				zap.String("tenant_id", tenant.ID.String()),
				zap.Any("panic", r))
		}
	}()

	result, err = o.runner.ProcessTenant(ctx, tenant, asOf)
	if err != nil {
		o.logger.Error("tenant processing failed",
			zap.String("tenant_id", tenant.ID.String()),
			zap.String("tenant_code", tenant.Code),
			zap.Error(err))
	}
	return result, err
}
