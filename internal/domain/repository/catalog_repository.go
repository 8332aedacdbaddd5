package repository

import (
	"context"

	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
)

// CatalogRepository puerto de lectura del catálogo de módulos y límites.
// Solo lectura, sin efectos; el catálogo lo administra el operador por fuera
// de este servicio.
type CatalogRepository interface {
	// ListModules devuelve los módulos activos ordenados por sort_order,
	// con sus sub-módulos activos anidados.
	ListModules(ctx context.Context) ([]*entity.ModuleDefinition, error)
	// ListLimitTypes devuelve los tipos de límite activos ordenados por sort_order.
	ListLimitTypes(ctx context.Context) ([]*entity.LimitTypeDefinition, error)
}
