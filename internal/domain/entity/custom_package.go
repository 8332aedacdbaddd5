package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un paquete personalizado.
const (
	PackageStatusDraft     = "draft"     // Creado y tarifado; aún sin suscripción
	PackageStatusActive    = "active"    // Activado exactamente una vez
	PackageStatusSuspended = "suspended" // Suspensión administrativa
	PackageStatusCancelled = "cancelled" // Terminal: cancelado o reemplazado por upgrade
)

// packageTransitions define las transiciones de estado permitidas del paquete.
// Ninguna transición sale de cancelled.
var packageTransitions = map[[2]string]bool{
	{PackageStatusDraft, PackageStatusActive}:        true,
	{PackageStatusActive, PackageStatusSuspended}:    true,
	{PackageStatusSuspended, PackageStatusActive}:    true,
	{PackageStatusActive, PackageStatusCancelled}:    true,
	{PackageStatusSuspended, PackageStatusCancelled}: true,
}

// CanTransitionPackage informa si la transición de estado es válida.
func CanTransitionPackage(from, to string) bool {
	return packageTransitions[[2]string{from, to}]
}

// CustomPackage es la selección concreta y tarifada de un tenant:
// módulos + sub-módulos + límites. TotalYearlyPrice se congela al crearlo;
// cambios posteriores del catálogo no lo alteran.
type CustomPackage struct {
	ID               string
	TenantID         string
	Name             string
	Description      string
	TotalYearlyPrice decimal.Decimal
	Status           string
	ActivatedAt      *time.Time
	SuspendedAt      *time.Time
	CancelledAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsTerminal informa si el paquete ya no admite transiciones.
func (p *CustomPackage) IsTerminal() bool {
	return p.Status == PackageStatusCancelled
}

// PackageModule fila hija inmutable: módulo incluido con su precio al momento
// de la compra. La corrección histórica de facturación exige que nunca cambie
// una vez que el paquete sale de draft.
type PackageModule struct {
	ID              string
	PackageID       string
	ModuleID        string
	PriceAtPurchase decimal.Decimal
	CreatedAt       time.Time
}

// PackageSubModule fila hija inmutable: sub-módulo incluido con precio congelado.
type PackageSubModule struct {
	ID              string
	PackageID       string
	SubModuleID     string
	PriceAtPurchase decimal.Decimal
	CreatedAt       time.Time
}

// PackageLimit fila hija inmutable: valor contratado de un tipo de límite y el
// precio por unidad vigente al momento de la compra.
type PackageLimit struct {
	ID              string
	PackageID       string
	LimitTypeID     string
	LimitValue      int64
	PriceAtPurchase decimal.Decimal
	CreatedAt       time.Time
}
