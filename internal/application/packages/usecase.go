// Package packages implementa el ciclo de vida de paquetes personalizados:
// creación con precio autoritativo y snapshot inmutable, activación única,
// suspensión administrativa y cancelación terminal.
package packages

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/dto"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/pricing"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/repository"
)

// UseCase ciclo de vida de paquetes personalizados.
type UseCase struct {
	txRunner    TxRunner
	pkgRepo     repository.PackageRepository
	catalogRepo repository.CatalogRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, pkgRepo repository.PackageRepository, catalogRepo repository.CatalogRepository) *UseCase {
	return &UseCase{txRunner: txRunner, pkgRepo: pkgRepo, catalogRepo: catalogRepo}
}

// loadCatalog lee el catálogo activo directo de la DB. El tarifado
// autoritativo nunca pasa por el cache: un catálogo viejo no puede congelar
// precios equivocados en el snapshot.
func (uc *UseCase) loadCatalog(ctx context.Context) (*pricing.Catalog, error) {
	modules, err := uc.catalogRepo.ListModules(ctx)
	if err != nil {
		return nil, err
	}
	limitTypes, err := uc.catalogRepo.ListLimitTypes(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.BuildCatalog(modules, limitTypes), nil
}

// selectionFromRequest arma la selección cruda del request.
func selectionFromRequest(cat *pricing.Catalog, moduleRefs []dto.PackageModuleRef, subModuleRefs []dto.PackageSubModuleRef, limits []dto.LimitSelection) *pricing.Selection {
	moduleIDs := make([]string, 0, len(moduleRefs))
	for _, m := range moduleRefs {
		moduleIDs = append(moduleIDs, m.ModuleID)
	}
	subModuleIDs := make([]string, 0, len(subModuleRefs))
	for _, sm := range subModuleRefs {
		subModuleIDs = append(subModuleIDs, sm.SubModuleID)
	}
	limitValues := make(map[string]int64, len(limits))
	for _, l := range limits {
		limitValues[l.LimitTypeID] = l.LimitValue
	}
	return pricing.NewSelectionFromRequest(cat, moduleIDs, subModuleIDs, limitValues)
}

// CalculatePrice recalcula el precio de una selección cruda (preview
// stateless). Es exactamente el mismo cálculo que usa CreatePackage; si el
// cliente calculó otra cosa, el valor del servidor gana en silencio.
func (uc *UseCase) CalculatePrice(ctx context.Context, in dto.CalculatePriceRequest) (*dto.CalculatePriceResponse, error) {
	cat, err := uc.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	sel := selectionFromRequest(cat, refsFromIDs(in.ModuleIDs), subRefsFromIDs(in.SubModuleIDs), in.Limits)
	if err := sel.Validate(cat); err != nil {
		return nil, err
	}
	return &dto.CalculatePriceResponse{TotalYearlyPrice: pricing.Price(sel, cat)}, nil
}

// CreatePackage valida la selección, recalcula el precio autoritativo y
// persiste el paquete en draft junto con sus filas hijas, todas estampadas
// con el precio de catálogo vigente (priceAtPurchase), en una sola
// transacción.
func (uc *UseCase) CreatePackage(ctx context.Context, tenantID string, in dto.CreatePackageRequest) (*dto.PackageResponse, error) {
	if tenantID == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	cat, err := uc.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	sel := selectionFromRequest(cat, in.Modules, in.SubModules, in.Limits)
	if sel.IsEmpty() {
		return nil, domain.ErrInvalidInput
	}
	if err := sel.Validate(cat); err != nil {
		return nil, err
	}
	total := pricing.Price(sel, cat)

	now := time.Now()
	pkg := &entity.CustomPackage{
		ID:               uuid.New().String(),
		TenantID:         tenantID,
		Name:             in.Name,
		Description:      in.Description,
		TotalYearlyPrice: total,
		Status:           entity.PackageStatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = uc.txRunner.Run(ctx, func(pkgRepo repository.PackageRepository) error {
		if err := pkgRepo.Create(ctx, pkg); err != nil {
			return err
		}
		for moduleID := range sel.ModuleIDs {
			row := &entity.PackageModule{
				ID:              uuid.New().String(),
				PackageID:       pkg.ID,
				ModuleID:        moduleID,
				PriceAtPurchase: cat.Modules[moduleID].YearlyPrice,
				CreatedAt:       now,
			}
			if err := pkgRepo.CreateModule(ctx, row); err != nil {
				return err
			}
		}
		for subModuleID := range sel.SubModuleIDs {
			row := &entity.PackageSubModule{
				ID:              uuid.New().String(),
				PackageID:       pkg.ID,
				SubModuleID:     subModuleID,
				PriceAtPurchase: cat.SubModules[subModuleID].YearlyPrice,
				CreatedAt:       now,
			}
			if err := pkgRepo.CreateSubModule(ctx, row); err != nil {
				return err
			}
		}
		for limitTypeID, value := range sel.Limits {
			row := &entity.PackageLimit{
				ID:              uuid.New().String(),
				PackageID:       pkg.ID,
				LimitTypeID:     limitTypeID,
				LimitValue:      value,
				PriceAtPurchase: cat.LimitTypes[limitTypeID].PricePerUnit,
				CreatedAt:       now,
			}
			if err := pkgRepo.CreateLimit(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPackageResponse(pkg), nil
}

// Activate transiciona draft -> active exactamente una vez. Sobre cualquier
// otro estado devuelve ErrConflict para hacer visible una doble activación.
func (uc *UseCase) Activate(ctx context.Context, tenantID, packageID string) (*dto.PackageResponse, error) {
	return uc.transition(ctx, tenantID, packageID, entity.PackageStatusActive)
}

// Suspend transición administrativa active -> suspended.
func (uc *UseCase) Suspend(ctx context.Context, tenantID, packageID string) (*dto.PackageResponse, error) {
	return uc.transition(ctx, tenantID, packageID, entity.PackageStatusSuspended)
}

// Cancel transición terminal; un paquete cancelado no se resucita.
func (uc *UseCase) Cancel(ctx context.Context, tenantID, packageID string) (*dto.PackageResponse, error) {
	return uc.transition(ctx, tenantID, packageID, entity.PackageStatusCancelled)
}

// transition aplica una transición de estado bajo bloqueo de fila
// (SELECT FOR UPDATE) para que dos requests concurrentes no logren ambos la
// misma transición.
func (uc *UseCase) transition(ctx context.Context, tenantID, packageID, target string) (*dto.PackageResponse, error) {
	var out *dto.PackageResponse
	err := uc.txRunner.Run(ctx, func(pkgRepo repository.PackageRepository) error {
		pkg, err := pkgRepo.GetByIDForUpdate(ctx, packageID)
		if err != nil {
			return err
		}
		if pkg == nil || pkg.TenantID != tenantID {
			return domain.ErrNotFound
		}
		if !entity.CanTransitionPackage(pkg.Status, target) {
			return domain.ErrConflict
		}
		now := time.Now()
		pkg.Status = target
		pkg.UpdatedAt = now
		switch target {
		case entity.PackageStatusActive:
			if pkg.ActivatedAt == nil {
				pkg.ActivatedAt = &now
			}
			pkg.SuspendedAt = nil
		case entity.PackageStatusSuspended:
			pkg.SuspendedAt = &now
		case entity.PackageStatusCancelled:
			pkg.CancelledAt = &now
		}
		if err := pkgRepo.UpdateStatus(ctx, pkg); err != nil {
			return err
		}
		out = toPackageResponse(pkg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID devuelve el paquete del tenant. Un paquete de otro tenant responde
// NotFound: el aislamiento por fila no filtra existencia.
func (uc *UseCase) GetByID(ctx context.Context, tenantID, packageID string) (*dto.PackageResponse, error) {
	pkg, err := uc.pkgRepo.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil || pkg.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return toPackageResponse(pkg), nil
}

// List devuelve los paquetes del tenant con paginación.
func (uc *UseCase) List(ctx context.Context, tenantID string, page dto.PageRequest) (*dto.PackageListResponse, error) {
	page.DefaultPage()
	list, err := uc.pkgRepo.ListByTenant(ctx, tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PackageResponse, 0, len(list))
	for _, pkg := range list {
		items = append(items, *toPackageResponse(pkg))
	}
	return &dto.PackageListResponse{Items: items, Limit: page.Limit, Offset: page.Offset}, nil
}

// GetLimits devuelve los límites contratados del paquete con su precio
// congelado.
func (uc *UseCase) GetLimits(ctx context.Context, tenantID, packageID string) ([]dto.PackageLimitResponse, error) {
	pkg, err := uc.pkgRepo.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil || pkg.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	limits, err := uc.pkgRepo.GetLimits(ctx, packageID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PackageLimitResponse, 0, len(limits))
	for _, l := range limits {
		out = append(out, dto.PackageLimitResponse{
			LimitTypeID:     l.LimitTypeID,
			LimitValue:      l.LimitValue,
			PriceAtPurchase: l.PriceAtPurchase,
		})
	}
	return out, nil
}

// RecomputeStoredPrice recalcula el total desde las filas hijas almacenadas
// (precios congelados). Debe reproducir TotalYearlyPrice exactamente; se usa
// para verificación de consistencia en tests y tooling.
func (uc *UseCase) RecomputeStoredPrice(ctx context.Context, packageID string) (decimal.Decimal, error) {
	modules, err := uc.pkgRepo.GetModules(ctx, packageID)
	if err != nil {
		return decimal.Zero, err
	}
	subModules, err := uc.pkgRepo.GetSubModules(ctx, packageID)
	if err != nil {
		return decimal.Zero, err
	}
	limits, err := uc.pkgRepo.GetLimits(ctx, packageID)
	if err != nil {
		return decimal.Zero, err
	}
	limitTypes, err := uc.catalogRepo.ListLimitTypes(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defaults := make(map[string]int64, len(limitTypes))
	for _, lt := range limitTypes {
		defaults[lt.ID] = lt.DefaultLimit
	}
	total := decimal.Zero
	for _, m := range modules {
		total = total.Add(m.PriceAtPurchase)
	}
	for _, sm := range subModules {
		total = total.Add(sm.PriceAtPurchase)
	}
	for _, l := range limits {
		extra := l.LimitValue - defaults[l.LimitTypeID]
		if extra > 0 {
			total = total.Add(l.PriceAtPurchase.Mul(decimal.NewFromInt(extra)))
		}
	}
	return total, nil
}

func refsFromIDs(ids []string) []dto.PackageModuleRef {
	out := make([]dto.PackageModuleRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, dto.PackageModuleRef{ModuleID: id})
	}
	return out
}

func subRefsFromIDs(ids []string) []dto.PackageSubModuleRef {
	out := make([]dto.PackageSubModuleRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, dto.PackageSubModuleRef{SubModuleID: id})
	}
	return out
}

func toPackageResponse(pkg *entity.CustomPackage) *dto.PackageResponse {
	return &dto.PackageResponse{
		ID:               pkg.ID,
		TenantID:         pkg.TenantID,
		Name:             pkg.Name,
		Description:      pkg.Description,
		TotalYearlyPrice: pkg.TotalYearlyPrice,
		Status:           pkg.Status,
		ActivatedAt:      pkg.ActivatedAt,
		SuspendedAt:      pkg.SuspendedAt,
		CancelledAt:      pkg.CancelledAt,
		CreatedAt:        pkg.CreatedAt,
	}
}
