package packages_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/dto"
	"github.com/gajjarumesh/erp-beta-sub001/internal/application/packages"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/repository"
)

const (
	testTenant      = "00000000-0000-0000-0000-00000000000a"
	testOtherTenant = "00000000-0000-0000-0000-00000000000b"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes in-memory
// ──────────────────────────────────────────────────────────────────────────────

// memPkgRepo guarda paquetes y filas hijas; los reads devuelven copias.
type memPkgRepo struct {
	mu         sync.Mutex
	pkgs       map[string]*entity.CustomPackage
	modules    map[string][]*entity.PackageModule
	subModules map[string][]*entity.PackageSubModule
	limits     map[string][]*entity.PackageLimit
}

func newMemPkgRepo() *memPkgRepo {
	return &memPkgRepo{
		pkgs:       make(map[string]*entity.CustomPackage),
		modules:    make(map[string][]*entity.PackageModule),
		subModules: make(map[string][]*entity.PackageSubModule),
		limits:     make(map[string][]*entity.PackageLimit),
	}
}

var _ repository.PackageRepository = (*memPkgRepo)(nil)

func (r *memPkgRepo) Create(_ context.Context, pkg *entity.CustomPackage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *pkg
	r.pkgs[pkg.ID] = &clone
	return nil
}

func (r *memPkgRepo) CreateModule(_ context.Context, row *entity.PackageModule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *row
	r.modules[row.PackageID] = append(r.modules[row.PackageID], &clone)
	return nil
}

func (r *memPkgRepo) CreateSubModule(_ context.Context, row *entity.PackageSubModule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *row
	r.subModules[row.PackageID] = append(r.subModules[row.PackageID], &clone)
	return nil
}

func (r *memPkgRepo) CreateLimit(_ context.Context, row *entity.PackageLimit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *row
	r.limits[row.PackageID] = append(r.limits[row.PackageID], &clone)
	return nil
}

func (r *memPkgRepo) get(id string) *entity.CustomPackage {
	if p, ok := r.pkgs[id]; ok {
		clone := *p
		return &clone
	}
	return nil
}

func (r *memPkgRepo) GetByID(_ context.Context, id string) (*entity.CustomPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id), nil
}

func (r *memPkgRepo) GetByIDForUpdate(_ context.Context, id string) (*entity.CustomPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id), nil
}

func (r *memPkgRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.CustomPackage, error) {
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

func (r *memPkgRepo) GetModules(_ context.Context, packageID string) ([]*entity.PackageModule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modules[packageID], nil
}

func (r *memPkgRepo) GetSubModules(_ context.Context, packageID string) ([]*entity.PackageSubModule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subModules[packageID], nil
}

func (r *memPkgRepo) GetLimits(_ context.Context, packageID string) ([]*entity.PackageLimit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limits[packageID], nil
}

func (r *memPkgRepo) UpdateStatus(_ context.Context, pkg *entity.CustomPackage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pkgs[pkg.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *pkg
	r.pkgs[pkg.ID] = &clone
	return nil
}

// memCatalogRepo devuelve un catálogo fijo.
type memCatalogRepo struct {
	modules    []*entity.ModuleDefinition
	limitTypes []*entity.LimitTypeDefinition
}

var _ repository.CatalogRepository = (*memCatalogRepo)(nil)

func (r *memCatalogRepo) ListModules(_ context.Context) ([]*entity.ModuleDefinition, error) {
	return r.modules, nil
}

func (r *memCatalogRepo) ListLimitTypes(_ context.Context) ([]*entity.LimitTypeDefinition, error) {
	return r.limitTypes, nil
}

// memTxRunner ejecuta el callback directo sobre el fake.
type memTxRunner struct {
	pkgs *memPkgRepo
}

var _ packages.TxRunner = (*memTxRunner)(nil)

func (r *memTxRunner) Run(_ context.Context, fn func(repository.PackageRepository) error) error {
	return fn(r.pkgs)
}

// newEnv arma el caso de uso con el catálogo de referencia:
// Módulo A 10000 (sub A1 2000), límite users default 5 / step 5 / 500 por unidad.
func newEnv(t *testing.T) (*packages.UseCase, *memPkgRepo) {
	t.Helper()
	modA := &entity.ModuleDefinition{ID: "mod-a", Slug: "a", Name: "Módulo A", YearlyPrice: dec("10000")}
	modA.SubModules = []*entity.SubModuleDefinition{
		{ID: "sub-a1", ModuleID: "mod-a", Slug: "a1", Name: "Sub A1", YearlyPrice: dec("2000")},
	}
	catalogRepo := &memCatalogRepo{
		modules: []*entity.ModuleDefinition{modA},
		limitTypes: []*entity.LimitTypeDefinition{
			{ID: "lim-users", Slug: "users", Name: "Usuarios", DefaultLimit: 5, IncrementStep: 5, PricePerUnit: dec("500")},
		},
	}
	pkgs := newMemPkgRepo()
	uc := packages.NewUseCase(&memTxRunner{pkgs: pkgs}, pkgs, catalogRepo)
	return uc, pkgs
}

func validRequest() dto.CreatePackageRequest {
	return dto.CreatePackageRequest{
		Name:       "Paquete contable",
		Modules:    []dto.PackageModuleRef{{ModuleID: "mod-a"}},
		SubModules: []dto.PackageSubModuleRef{{SubModuleID: "sub-a1"}},
		Limits:     []dto.LimitSelection{{LimitTypeID: "lim-users", LimitValue: 15}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y precio autoritativo
// ──────────────────────────────────────────────────────────────────────────────

func TestCreatePackage_CongelaPrecioYFilasHijas(t *testing.T) {
	uc, pkgs := newEnv(t)

	out, err := uc.CreatePackage(context.Background(), testTenant, validRequest())
	require.NoError(t, err)

	assert.Equal(t, entity.PackageStatusDraft, out.Status)
	assert.True(t, dec("17000").Equal(out.TotalYearlyPrice), "10000 + 2000 + 10*500 = 17000, obtuve %s", out.TotalYearlyPrice)

	modules, _ := pkgs.GetModules(context.Background(), out.ID)
	require.Len(t, modules, 1)
	assert.True(t, dec("10000").Equal(modules[0].PriceAtPurchase))

	limits, _ := pkgs.GetLimits(context.Background(), out.ID)
	require.Len(t, limits, 1)
	assert.Equal(t, int64(15), limits[0].LimitValue)
	assert.True(t, dec("500").Equal(limits[0].PriceAtPurchase), "se congela el precio por unidad, no el subtotal")
}

// El total recalculado desde las filas hijas reproduce el total congelado.
func TestRecomputeStoredPrice_ReproduceElTotal(t *testing.T) {
	uc, _ := newEnv(t)

	out, err := uc.CreatePackage(context.Background(), testTenant, validRequest())
	require.NoError(t, err)

	recomputed, err := uc.RecomputeStoredPrice(context.Background(), out.ID)
	require.NoError(t, err)
	assert.True(t, out.TotalYearlyPrice.Equal(recomputed),
		"esperaba %s, obtuve %s", out.TotalYearlyPrice, recomputed)
}

func TestCreatePackage_SeleccionVacia_Rechazada(t *testing.T) {
	uc, _ := newEnv(t)

	_, err := uc.CreatePackage(context.Background(), testTenant, dto.CreatePackageRequest{Name: "vacío"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreatePackage_SubModuloHuerfano_Rechazado(t *testing.T) {
	uc, _ := newEnv(t)

	_, err := uc.CreatePackage(context.Background(), testTenant, dto.CreatePackageRequest{
		Name:       "huérfano",
		Modules:    []dto.PackageModuleRef{{ModuleID: "mod-a"}},
		SubModules: []dto.PackageSubModuleRef{{SubModuleID: "sub-inexistente"}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCalculatePrice_MismoCalculoQueCreate(t *testing.T) {
	uc, _ := newEnv(t)

	preview, err := uc.CalculatePrice(context.Background(), dto.CalculatePriceRequest{
		ModuleIDs:    []string{"mod-a"},
		SubModuleIDs: []string{"sub-a1"},
		Limits:       []dto.LimitSelection{{LimitTypeID: "lim-users", LimitValue: 15}},
	})
	require.NoError(t, err)

	created, err := uc.CreatePackage(context.Background(), testTenant, validRequest())
	require.NoError(t, err)

	assert.True(t, preview.TotalYearlyPrice.Equal(created.TotalYearlyPrice),
		"preview y creación deben usar exactamente el mismo cálculo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones de estado
// ──────────────────────────────────────────────────────────────────────────────

func TestActivate_UnaSolaVez(t *testing.T) {
	uc, _ := newEnv(t)
	created, err := uc.CreatePackage(context.Background(), testTenant, validRequest())
	require.NoError(t, err)

	out, err := uc.Activate(context.Background(), testTenant, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PackageStatusActive, out.Status)
	assert.NotNil(t, out.ActivatedAt)

	_, err = uc.Activate(context.Background(), testTenant, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "la doble activación debe ser visible")
}

func TestSuspendYReactivar(t *testing.T) {
	uc, _ := newEnv(t)
	created, err := uc.CreatePackage(context.Background(), testTenant, validRequest())
	require.NoError(t, err)
	_, err = uc.Activate(context.Background(), testTenant, created.ID)
	require.NoError(t, err)

	out, err := uc.Suspend(context.Background(), testTenant, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PackageStatusSuspended, out.Status)

	out, err = uc.Activate(context.Background(), testTenant, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PackageStatusActive, out.Status)
}

func TestCancel_EsTerminal(t *testing.T) {
	uc, _ := newEnv(t)
	created, err := uc.CreatePackage(context.Background(), testTenant, validRequest())
	require.NoError(t, err)
	_, err = uc.Activate(context.Background(), testTenant, created.ID)
	require.NoError(t, err)

	_, err = uc.Cancel(context.Background(), testTenant, created.ID)
	require.NoError(t, err)

	_, err = uc.Activate(context.Background(), testTenant, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "un paquete cancelado no se resucita")
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento por tenant
// ──────────────────────────────────────────────────────────────────────────────

func TestTenantAjeno_VeNotFound(t *testing.T) {
	uc, _ := newEnv(t)
	created, err := uc.CreatePackage(context.Background(), testTenant, validRequest())
	require.NoError(t, err)

	_, err = uc.GetByID(context.Background(), testOtherTenant, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Activate(context.Background(), testOtherTenant, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "el aislamiento no filtra existencia")

	_, err = uc.GetLimits(context.Background(), testOtherTenant, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
