package pricing

import (
	"github.com/shopspring/decimal"
)

// Price calcula el precio anual total de una selección validada:
//
//	Σ precio anual de módulos seleccionados
//	+ Σ precio anual de sub-módulos seleccionados
//	+ Σ por tipo de límite: max(0, valor - default) * precio por unidad
//
// Es una función pura y determinista: sin efectos, sin redondeo de moneda
// (la moneda del tenant viaja aparte). IDs desconocidos se ignoran; la
// validación de referencias es responsabilidad de Selection.Validate.
func Price(sel *Selection, cat *Catalog) decimal.Decimal {
	total := decimal.Zero
	for id := range sel.ModuleIDs {
		if m, ok := cat.Modules[id]; ok {
			total = total.Add(m.YearlyPrice)
		}
	}
	for id := range sel.SubModuleIDs {
		if sm, ok := cat.SubModules[id]; ok {
			total = total.Add(sm.YearlyPrice)
		}
	}
	for id, value := range sel.Limits {
		lt, ok := cat.LimitTypes[id]
		if !ok {
			continue
		}
		extra := value - lt.DefaultLimit
		if extra <= 0 {
			continue
		}
		total = total.Add(lt.PricePerUnit.Mul(decimal.NewFromInt(extra)))
	}
	return total
}
