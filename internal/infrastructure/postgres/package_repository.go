package postgres

import (
	"context"
	"fmt"

	"github.com/gajjarumesh/erp-beta-sub001/internal/domain"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/repository"
)

// Asegura que PackageRepo implementa repository.PackageRepository.
var _ repository.PackageRepository = (*PackageRepo)(nil)

// PackageRepo adaptador de persistencia de paquetes personalizados.
// Las filas hijas (módulos, sub-módulos, límites) son inmutables: solo hay
// INSERT y SELECT, nunca UPDATE.
type PackageRepo struct {
	q Querier
}

// NewPackageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPackageRepository(q Querier) *PackageRepo {
	return &PackageRepo{q: q}
}

// Create persiste la fila padre del paquete en draft.
func (r *PackageRepo) Create(ctx context.Context, pkg *entity.CustomPackage) error {
	const query = `
		INSERT INTO custom_packages (id, tenant_id, name, description, total_yearly_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		pkg.ID, pkg.TenantID, pkg.Name, pkg.Description,
		pkg.TotalYearlyPrice, pkg.Status, pkg.CreatedAt, pkg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert custom package: %w", err)
	}
	return nil
}

// CreateModule persiste una fila hija de módulo con su precio congelado.
func (r *PackageRepo) CreateModule(ctx context.Context, row *entity.PackageModule) error {
	const query = `
		INSERT INTO custom_package_modules (id, package_id, module_id, price_at_purchase, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, row.ID, row.PackageID, row.ModuleID, row.PriceAtPurchase, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert package module: %w", err)
	}
	return nil
}

// CreateSubModule persiste una fila hija de sub-módulo con su precio congelado.
func (r *PackageRepo) CreateSubModule(ctx context.Context, row *entity.PackageSubModule) error {
	const query = `
		INSERT INTO custom_package_sub_modules (id, package_id, sub_module_id, price_at_purchase, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, row.ID, row.PackageID, row.SubModuleID, row.PriceAtPurchase, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert package sub module: %w", err)
	}
	return nil
}

// CreateLimit persiste una fila hija de límite con su precio por unidad congelado.
func (r *PackageRepo) CreateLimit(ctx context.Context, row *entity.PackageLimit) error {
	const query = `
		INSERT INTO custom_package_limits (id, package_id, limit_type_id, limit_value, price_at_purchase, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, row.ID, row.PackageID, row.LimitTypeID, row.LimitValue, row.PriceAtPurchase, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert package limit: %w", err)
	}
	return nil
}

const packageColumns = `
	id, tenant_id, name, COALESCE(description, ''), total_yearly_price, status,
	activated_at, suspended_at, cancelled_at, created_at, updated_at`

func (r *PackageRepo) scanPackage(row interface{ Scan(dest ...any) error }) (*entity.CustomPackage, error) {
	var p entity.CustomPackage
	err := row.Scan(
		&p.ID, &p.TenantID, &p.Name, &p.Description, &p.TotalYearlyPrice, &p.Status,
		&p.ActivatedAt, &p.SuspendedAt, &p.CancelledAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan custom package: %w", err)
	}
	return &p, nil
}

// GetByID obtiene un paquete por ID.
func (r *PackageRepo) GetByID(ctx context.Context, id string) (*entity.CustomPackage, error) {
	query := `SELECT ` + packageColumns + ` FROM custom_packages WHERE id = $1`
	return r.scanPackage(r.q.QueryRow(ctx, query, id))
}

// GetByIDForUpdate obtiene un paquete bloqueando la fila (SELECT FOR UPDATE).
// Usar dentro de una transacción para transiciones de estado.
func (r *PackageRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.CustomPackage, error) {
	query := `SELECT ` + packageColumns + ` FROM custom_packages WHERE id = $1 FOR UPDATE`
	return r.scanPackage(r.q.QueryRow(ctx, query, id))
}

// ListByTenant devuelve los paquetes del tenant con paginación.
func (r *PackageRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.CustomPackage, error) {
	query := `SELECT ` + packageColumns + `
		FROM custom_packages WHERE tenant_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list custom packages: %w", err)
	}
	defer rows.Close()

	var list []*entity.CustomPackage
	for rows.Next() {
		var p entity.CustomPackage
		if err := rows.Scan(
			&p.ID, &p.TenantID, &p.Name, &p.Description, &p.TotalYearlyPrice, &p.Status,
			&p.ActivatedAt, &p.SuspendedAt, &p.CancelledAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan custom package: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// GetModules devuelve las filas hijas de módulos.
func (r *PackageRepo) GetModules(ctx context.Context, packageID string) ([]*entity.PackageModule, error) {
	const query = `
		SELECT id, package_id, module_id, price_at_purchase, created_at
		FROM custom_package_modules WHERE package_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, packageID)
	if err != nil {
		return nil, fmt.Errorf("list package modules: %w", err)
	}
	defer rows.Close()

	var list []*entity.PackageModule
	for rows.Next() {
		var m entity.PackageModule
		if err := rows.Scan(&m.ID, &m.PackageID, &m.ModuleID, &m.PriceAtPurchase, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan package module: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// GetSubModules devuelve las filas hijas de sub-módulos.
func (r *PackageRepo) GetSubModules(ctx context.Context, packageID string) ([]*entity.PackageSubModule, error) {
	const query = `
		SELECT id, package_id, sub_module_id, price_at_purchase, created_at
		FROM custom_package_sub_modules WHERE package_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, packageID)
	if err != nil {
		return nil, fmt.Errorf("list package sub modules: %w", err)
	}
	defer rows.Close()

	var list []*entity.PackageSubModule
	for rows.Next() {
		var sm entity.PackageSubModule
		if err := rows.Scan(&sm.ID, &sm.PackageID, &sm.SubModuleID, &sm.PriceAtPurchase, &sm.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan package sub module: %w", err)
		}
		list = append(list, &sm)
	}
	return list, rows.Err()
}

// GetLimits devuelve las filas hijas de límites.
func (r *PackageRepo) GetLimits(ctx context.Context, packageID string) ([]*entity.PackageLimit, error) {
	const query = `
		SELECT id, package_id, limit_type_id, limit_value, price_at_purchase, created_at
		FROM custom_package_limits WHERE package_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, packageID)
	if err != nil {
		return nil, fmt.Errorf("list package limits: %w", err)
	}
	defer rows.Close()

	var list []*entity.PackageLimit
	for rows.Next() {
		var l entity.PackageLimit
		if err := rows.Scan(&l.ID, &l.PackageID, &l.LimitTypeID, &l.LimitValue, &l.PriceAtPurchase, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan package limit: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateStatus persiste status y timestamps de transición.
func (r *PackageRepo) UpdateStatus(ctx context.Context, pkg *entity.CustomPackage) error {
	const query = `
		UPDATE custom_packages
		SET status = $2, activated_at = $3, suspended_at = $4, cancelled_at = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		pkg.ID, pkg.Status, pkg.ActivatedAt, pkg.SuspendedAt, pkg.CancelledAt, pkg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update custom package status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
