package postgres

import (
	"context"
	"fmt"

	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/repository"
)

// Asegura que CatalogRepo implementa repository.CatalogRepository.
var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo adaptador de lectura del catálogo sobre PostgreSQL.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// ListModules devuelve los módulos activos ordenados por sort_order, con sus
// sub-módulos activos anidados (dos queries, resolución por ID en memoria).
func (r *CatalogRepo) ListModules(ctx context.Context) ([]*entity.ModuleDefinition, error) {
	const modulesQuery = `
		SELECT id, slug, name, COALESCE(description, ''), yearly_price, is_active, sort_order, created_at, updated_at
		FROM modules_catalog
		WHERE is_active = true
		ORDER BY sort_order, slug`
	rows, err := r.q.Query(ctx, modulesQuery)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var modules []*entity.ModuleDefinition
	byID := make(map[string]*entity.ModuleDefinition)
	for rows.Next() {
		var m entity.ModuleDefinition
		if err := rows.Scan(&m.ID, &m.Slug, &m.Name, &m.Description, &m.YearlyPrice, &m.IsActive, &m.SortOrder, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		modules = append(modules, &m)
		byID[m.ID] = &m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const subModulesQuery = `
		SELECT id, module_id, slug, name, yearly_price, is_active, sort_order, created_at, updated_at
		FROM sub_modules_catalog
		WHERE is_active = true
		ORDER BY sort_order, slug`
	subRows, err := r.q.Query(ctx, subModulesQuery)
	if err != nil {
		return nil, fmt.Errorf("list sub modules: %w", err)
	}
	defer subRows.Close()

	for subRows.Next() {
		var sm entity.SubModuleDefinition
		if err := subRows.Scan(&sm.ID, &sm.ModuleID, &sm.Slug, &sm.Name, &sm.YearlyPrice, &sm.IsActive, &sm.SortOrder, &sm.CreatedAt, &sm.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sub module: %w", err)
		}
		if parent, ok := byID[sm.ModuleID]; ok {
			parent.SubModules = append(parent.SubModules, &sm)
		}
	}
	return modules, subRows.Err()
}

// ListLimitTypes devuelve los tipos de límite activos ordenados por sort_order.
func (r *CatalogRepo) ListLimitTypes(ctx context.Context) ([]*entity.LimitTypeDefinition, error) {
	const query = `
		SELECT id, slug, name, unit, default_limit, increment_step, price_per_unit, is_active, sort_order, created_at, updated_at
		FROM limit_types_catalog
		WHERE is_active = true
		ORDER BY sort_order, slug`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list limit types: %w", err)
	}
	defer rows.Close()

	var list []*entity.LimitTypeDefinition
	for rows.Next() {
		var lt entity.LimitTypeDefinition
		if err := rows.Scan(&lt.ID, &lt.Slug, &lt.Name, &lt.Unit, &lt.DefaultLimit, &lt.IncrementStep, &lt.PricePerUnit, &lt.IsActive, &lt.SortOrder, &lt.CreatedAt, &lt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan limit type: %w", err)
		}
		list = append(list, &lt)
	}
	return list, rows.Err()
}
