// Package pricing contiene el núcleo puro del configurador de paquetes:
// la selección en progreso, sus invariantes y el cálculo de precio anual.
// No toca persistencia ni red; el mismo cálculo corre como preview y como
// recomputación autoritativa del servidor.
package pricing

import (
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
)

// Catalog es una vista indexada por ID del catálogo activo, resuelta por
// lookups explícitos en lugar de grafos de objetos vivos.
type Catalog struct {
	Modules    map[string]*entity.ModuleDefinition
	SubModules map[string]*entity.SubModuleDefinition
	LimitTypes map[string]*entity.LimitTypeDefinition
}

// BuildCatalog indexa los listados del repositorio de catálogo.
// Los sub-módulos se toman de los módulos anidados.
func BuildCatalog(modules []*entity.ModuleDefinition, limitTypes []*entity.LimitTypeDefinition) *Catalog {
	c := &Catalog{
		Modules:    make(map[string]*entity.ModuleDefinition, len(modules)),
		SubModules: make(map[string]*entity.SubModuleDefinition),
		LimitTypes: make(map[string]*entity.LimitTypeDefinition, len(limitTypes)),
	}
	for _, m := range modules {
		c.Modules[m.ID] = m
		for _, sm := range m.SubModules {
			c.SubModules[sm.ID] = sm
		}
	}
	for _, lt := range limitTypes {
		c.LimitTypes[lt.ID] = lt
	}
	return c
}
