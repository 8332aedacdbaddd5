package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LimitTypeDefinition define un eje de recurso escalable del paquete
// (asientos, almacenamiento, facturas/mes). DefaultLimit unidades van
// incluidas sin costo; por encima se cobra PricePerUnit por unidad, y el
// valor solo puede crecer en múltiplos de IncrementStep.
type LimitTypeDefinition struct {
	ID            string
	Slug          string
	Name          string
	Unit          string
	DefaultLimit  int64
	IncrementStep int64
	PricePerUnit  decimal.Decimal
	IsActive      bool
	SortOrder     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
