package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ModuleDefinition es una entrada del catálogo de módulos SaaS contratables
// (Ventas, Inventario, CRM, etc.). La edita el operador de la plataforma,
// nunca el tenant. El precio es anual.
type ModuleDefinition struct {
	ID          string
	Slug        string
	Name        string
	Description string
	YearlyPrice decimal.Decimal
	IsActive    bool
	SortOrder   int
	// SubModules anidados para el listado del catálogo (solo activos).
	SubModules []*SubModuleDefinition
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SubModuleDefinition es un complemento opcional de un módulo, con precio
// anual propio. No tiene sentido sin su módulo padre seleccionado.
type SubModuleDefinition struct {
	ID          string
	ModuleID    string
	Slug        string
	Name        string
	YearlyPrice decimal.Decimal
	IsActive    bool
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
