package repository

import (
	"context"

	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
)

// PackageRepository puerto de persistencia de paquetes personalizados y sus
// filas hijas inmutables.
type PackageRepository interface {
	Create(ctx context.Context, pkg *entity.CustomPackage) error
	CreateModule(ctx context.Context, row *entity.PackageModule) error
	CreateSubModule(ctx context.Context, row *entity.PackageSubModule) error
	CreateLimit(ctx context.Context, row *entity.PackageLimit) error

	GetByID(ctx context.Context, id string) (*entity.CustomPackage, error)
	// GetByIDForUpdate bloquea la fila del paquete (SELECT FOR UPDATE) para
	// transiciones de estado read-modify-write. Solo tiene sentido dentro de
	// una transacción (TxRunner).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.CustomPackage, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.CustomPackage, error)

	GetModules(ctx context.Context, packageID string) ([]*entity.PackageModule, error)
	GetSubModules(ctx context.Context, packageID string) ([]*entity.PackageSubModule, error)
	GetLimits(ctx context.Context, packageID string) ([]*entity.PackageLimit, error)

	// UpdateStatus persiste status y timestamps de transición del paquete.
	UpdateStatus(ctx context.Context, pkg *entity.CustomPackage) error
}
