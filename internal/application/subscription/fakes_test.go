package subscription_test

import (
	"context"
	"sync"
	"time"

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/billing"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes in-memory de los puertos de persistencia
// ──────────────────────────────────────────────────────────────────────────────

// fakeSubRepo emula el repositorio de suscripciones: los reads devuelven
// copias (como un scan de fila) y el índice único parcial se emula en Create.
type fakeSubRepo struct {
	mu   sync.Mutex
	subs map[string]*entity.Subscription
	// claimed simula filas bloqueadas por otra transacción: ClaimByID
	// devuelve nil para ellas, igual que FOR UPDATE SKIP LOCKED.
	claimed map[string]bool
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{
		subs:    make(map[string]*entity.Subscription),
		claimed: make(map[string]bool),
	}
}

var _ repository.SubscriptionRepository = (*fakeSubRepo)(nil)

func (r *fakeSubRepo) Create(_ context.Context, sub *entity.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.TenantID == sub.TenantID && !s.IsTerminal() {
			return domain.ErrConflict
		}
	}
	clone := *sub
	r.subs[sub.ID] = &clone
	return nil
}

func (r *fakeSubRepo) get(id string) *entity.Subscription {
	if s, ok := r.subs[id]; ok {
		clone := *s
		return &clone
	}
	return nil
}

func (r *fakeSubRepo) GetByID(_ context.Context, id string) (*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id), nil
}

func (r *fakeSubRepo) GetByIDForUpdate(_ context.Context, id string) (*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id), nil
}

func (r *fakeSubRepo) GetCurrentByTenant(_ context.Context, tenantID string) (*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.TenantID == tenantID && !s.IsTerminal() && s.Status != entity.SubscriptionStatusSuspended {
			clone := *s
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeSubRepo) Update(_ context.Context, sub *entity.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sub.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *sub
	r.subs[sub.ID] = &clone
	return nil
}

func (r *fakeSubRepo) ListDueIDs(_ context.Context, now time.Time, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, s := range r.subs {
		if s.IsDue(now) {
			ids = append(ids, id)
			if len(ids) >= limit {
				break
			}
		}
	}
	return ids, nil
}

func (r *fakeSubRepo) ClaimByID(_ context.Context, id string) (*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimed[id] {
		return nil, nil
	}
	return r.get(id), nil
}

// fakePkgRepo emula el repositorio de paquetes.
type fakePkgRepo struct {
	mu   sync.Mutex
	pkgs map[string]*entity.CustomPackage
}

func newFakePkgRepo() *fakePkgRepo {
	return &fakePkgRepo{pkgs: make(map[string]*entity.CustomPackage)}
}

var _ repository.PackageRepository = (*fakePkgRepo)(nil)

func (r *fakePkgRepo) put(pkg *entity.CustomPackage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *pkg
	r.pkgs[pkg.ID] = &clone
}

func (r *fakePkgRepo) Create(_ context.Context, pkg *entity.CustomPackage) error {
	r.put(pkg)
	return nil
}

func (r *fakePkgRepo) CreateModule(_ context.Context, _ *entity.PackageModule) error       { return nil }
func (r *fakePkgRepo) CreateSubModule(_ context.Context, _ *entity.PackageSubModule) error { return nil }
func (r *fakePkgRepo) CreateLimit(_ context.Context, _ *entity.PackageLimit) error         { return nil }

func (r *fakePkgRepo) get(id string) *entity.CustomPackage {
	if p, ok := r.pkgs[id]; ok {
		clone := *p
		return &clone
	}
	return nil
}

func (r *fakePkgRepo) GetByID(_ context.Context, id string) (*entity.CustomPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id), nil
}

func (r *fakePkgRepo) GetByIDForUpdate(_ context.Context, id string) (*entity.CustomPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id), nil
}

func (r *fakePkgRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.CustomPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.CustomPackage
	for _, p := range r.pkgs {
		if p.TenantID == tenantID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakePkgRepo) GetModules(_ context.Context, _ string) ([]*entity.PackageModule, error) {
	return nil, nil
}
func (r *fakePkgRepo) GetSubModules(_ context.Context, _ string) ([]*entity.PackageSubModule, error) {
	return nil, nil
}
func (r *fakePkgRepo) GetLimits(_ context.Context, _ string) ([]*entity.PackageLimit, error) {
	return nil, nil
}

func (r *fakePkgRepo) UpdateStatus(_ context.Context, pkg *entity.CustomPackage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pkgs[pkg.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *pkg
	r.pkgs[pkg.ID] = &clone
	return nil
}

// fakeTxRunner ejecuta el callback directo sobre los fakes (sin transacción
// real; la atomicidad no se verifica aquí).
type fakeTxRunner struct {
	subs *fakeSubRepo
	pkgs *fakePkgRepo
}

func (r *fakeTxRunner) RunSubscription(_ context.Context, fn func(repository.SubscriptionRepository, repository.PackageRepository) error) error {
	return fn(r.subs, r.pkgs)
}

// fakeGateway devuelve resultados configurados por suscripción.
type fakeGateway struct {
	mu       sync.Mutex
	outcomes map[string]billing.Outcome
	errs     map[string]error
	calls    int
}

var _ billing.PaymentGateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		outcomes: make(map[string]billing.Outcome),
		errs:     make(map[string]error),
	}
}

func (g *fakeGateway) LatestOutcome(_ context.Context, subscriptionID string) (billing.Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if err, ok := g.errs[subscriptionID]; ok {
		return "", err
	}
	if out, ok := g.outcomes[subscriptionID]; ok {
		return out, nil
	}
	return billing.OutcomeNone, nil
}
