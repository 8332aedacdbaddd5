package billing

import (
	"context"

	"github.com/gajjarumesh/erp-beta-sub001/internal/domain"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/repository"
)

// ReceiptUseCase genera la representación gráfica (PDF) del recibo de pago
// de una suscripción, con el desglose del paquete a precios congelados
// (priceAtPurchase).
type ReceiptUseCase struct {
	subRepo     repository.SubscriptionRepository
	pkgRepo     repository.PackageRepository
	catalogRepo repository.CatalogRepository
	generator   ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(subRepo repository.SubscriptionRepository, pkgRepo repository.PackageRepository, catalogRepo repository.CatalogRepository, generator ReceiptPDFGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{subRepo: subRepo, pkgRepo: pkgRepo, catalogRepo: catalogRepo, generator: generator}
}

// GenerateReceipt arma los datos del recibo y delega el render al generador.
func (uc *ReceiptUseCase) GenerateReceipt(ctx context.Context, tenantID, subscriptionID string) ([]byte, error) {
	sub, err := uc.subRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	pkg, err := uc.pkgRepo.GetByID(ctx, sub.CustomPackageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, domain.ErrNotFound
	}
	modules, err := uc.pkgRepo.GetModules(ctx, pkg.ID)
	if err != nil {
		return nil, err
	}
	subModules, err := uc.pkgRepo.GetSubModules(ctx, pkg.ID)
	if err != nil {
		return nil, err
	}
	limits, err := uc.pkgRepo.GetLimits(ctx, pkg.ID)
	if err != nil {
		return nil, err
	}

	data := &ReceiptData{
		Subscription:   sub,
		Package:        pkg,
		Modules:        modules,
		SubModules:     subModules,
		Limits:         limits,
		ModuleNames:    map[string]string{},
		SubModuleNames: map[string]string{},
		LimitTypeNames: map[string]string{},
	}

	// Nombres de catálogo para el render; un componente retirado del catálogo
	// se imprime por ID antes que romper un recibo histórico.
	catModules, err := uc.catalogRepo.ListModules(ctx)
	if err == nil {
		for _, m := range catModules {
			data.ModuleNames[m.ID] = m.Name
			for _, sm := range m.SubModules {
				data.SubModuleNames[sm.ID] = sm.Name
			}
		}
	}
	catLimits, err := uc.catalogRepo.ListLimitTypes(ctx)
	if err == nil {
		for _, lt := range catLimits {
			data.LimitTypeNames[lt.ID] = lt.Name
		}
	}

	return uc.generator.GenerateReceiptPDF(ctx, data)
}
