package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Catálogo ──────────────────────────────────────────────────────────────────

// SubModuleResponse sub-módulo del catálogo.
type SubModuleResponse struct {
	ID          string          `json:"id"`
	ModuleID    string          `json:"moduleId"`
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	YearlyPrice decimal.Decimal `json:"yearlyPrice"`
}

// ModuleResponse módulo del catálogo con sus sub-módulos activos.
type ModuleResponse struct {
	ID          string              `json:"id"`
	Slug        string              `json:"slug"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	YearlyPrice decimal.Decimal     `json:"yearlyPrice"`
	SortOrder   int                 `json:"sortOrder"`
	SubModules  []SubModuleResponse `json:"subModules"`
}

// LimitTypeResponse tipo de límite del catálogo.
type LimitTypeResponse struct {
	ID            string          `json:"id"`
	Slug          string          `json:"slug"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	DefaultLimit  int64           `json:"defaultLimit"`
	IncrementStep int64           `json:"incrementStep"`
	PricePerUnit  decimal.Decimal `json:"pricePerUnit"`
	SortOrder     int             `json:"sortOrder"`
}

// ── Selección y precio ────────────────────────────────────────────────────────

// LimitSelection un valor de límite enviado por el cliente.
type LimitSelection struct {
	LimitTypeID string `json:"limitTypeId"`
	LimitValue  int64  `json:"limitValue"`
}

// CalculatePriceRequest selección cruda para el preview de precio.
// El precio que calcule el cliente es solo preview: el servidor siempre
// recalcula y su valor es el autoritativo.
type CalculatePriceRequest struct {
	ModuleIDs    []string         `json:"moduleIds"`
	SubModuleIDs []string         `json:"subModuleIds"`
	Limits       []LimitSelection `json:"limits"`
}

// CalculatePriceResponse precio anual recalculado por el servidor.
type CalculatePriceResponse struct {
	TotalYearlyPrice decimal.Decimal `json:"totalYearlyPrice"`
}

// ── Paquetes ──────────────────────────────────────────────────────────────────

// PackageModuleRef referencia a un módulo en la creación del paquete.
type PackageModuleRef struct {
	ModuleID string `json:"moduleId"`
}

// PackageSubModuleRef referencia a un sub-módulo en la creación del paquete.
type PackageSubModuleRef struct {
	SubModuleID string `json:"subModuleId"`
}

// CreatePackageRequest alta de un paquete personalizado en draft.
type CreatePackageRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Modules     []PackageModuleRef    `json:"modules"`
	SubModules  []PackageSubModuleRef `json:"subModules"`
	Limits      []LimitSelection      `json:"limits"`
}

// PackageResponse paquete personalizado.
type PackageResponse struct {
	ID               string          `json:"id"`
	TenantID         string          `json:"tenantId"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	TotalYearlyPrice decimal.Decimal `json:"totalYearlyPrice"`
	Status           string          `json:"status"`
	ActivatedAt      *time.Time      `json:"activatedAt,omitempty"`
	SuspendedAt      *time.Time      `json:"suspendedAt,omitempty"`
	CancelledAt      *time.Time      `json:"cancelledAt,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// PackageListResponse listado paginado de paquetes del tenant.
type PackageListResponse struct {
	Items  []PackageResponse `json:"items"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// PackageLimitResponse límite contratado de un paquete (precio congelado).
type PackageLimitResponse struct {
	LimitTypeID     string          `json:"limitTypeId"`
	LimitValue      int64           `json:"limitValue"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

// UpgradePackageRequest upgrade del paquete vigente de la suscripción.
type UpgradePackageRequest struct {
	NewPackageID string `json:"newPackageId"`
}
