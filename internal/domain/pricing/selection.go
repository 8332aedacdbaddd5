package pricing

import (
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain"
)

// Selection es la selección en progreso de un paquete personalizado.
// Es un valor explícito que se pasa entre capas; las transiciones
// (ToggleModule, ToggleSubModule, UpdateLimit) validan antes de mutar,
// de modo que tras cualquier acción de usuario la selección sigue siendo
// representable y válida.
type Selection struct {
	ModuleIDs    map[string]bool
	SubModuleIDs map[string]bool
	// Limits mapea limitTypeID -> valor contratado. Se inicializa con los
	// defaults del catálogo; un valor nunca baja del default.
	Limits map[string]int64
}

// NewSelection crea una selección vacía con los límites en sus defaults.
func NewSelection(cat *Catalog) *Selection {
	s := &Selection{
		ModuleIDs:    make(map[string]bool),
		SubModuleIDs: make(map[string]bool),
		Limits:       make(map[string]int64, len(cat.LimitTypes)),
	}
	for id, lt := range cat.LimitTypes {
		s.Limits[id] = lt.DefaultLimit
	}
	return s
}

// NewSelectionFromRequest arma una selección a partir de los IDs crudos de un
// request HTTP. No valida; el caller debe llamar Validate con el catálogo.
// Los límites no enviados quedan en su default.
func NewSelectionFromRequest(cat *Catalog, moduleIDs, subModuleIDs []string, limits map[string]int64) *Selection {
	s := NewSelection(cat)
	for _, id := range moduleIDs {
		s.ModuleIDs[id] = true
	}
	for _, id := range subModuleIDs {
		s.SubModuleIDs[id] = true
	}
	for id, v := range limits {
		s.Limits[id] = v
	}
	return s
}

// ToggleModule agrega o quita un módulo. Al deseleccionar, quita en cascada
// todos los sub-módulos cuyo padre es este módulo: un sub-módulo sin su
// padre seleccionado es un estado inválido que nunca debe quedar
// representado tras una acción de usuario.
func (s *Selection) ToggleModule(cat *Catalog, moduleID string) error {
	mod, ok := cat.Modules[moduleID]
	if !ok {
		return domain.ErrNotFound
	}
	if s.ModuleIDs[moduleID] {
		delete(s.ModuleIDs, moduleID)
		for smID := range s.SubModuleIDs {
			if sm, ok := cat.SubModules[smID]; ok && sm.ModuleID == mod.ID {
				delete(s.SubModuleIDs, smID)
			}
		}
		return nil
	}
	s.ModuleIDs[moduleID] = true
	return nil
}

// ToggleSubModule agrega o quita un sub-módulo. Rechaza con ErrInvalidState
// si el módulo padre no está seleccionado.
func (s *Selection) ToggleSubModule(cat *Catalog, subModuleID string) error {
	sm, ok := cat.SubModules[subModuleID]
	if !ok {
		return domain.ErrNotFound
	}
	if s.SubModuleIDs[subModuleID] {
		delete(s.SubModuleIDs, subModuleID)
		return nil
	}
	if !s.ModuleIDs[sm.ModuleID] {
		return domain.ErrInvalidState
	}
	s.SubModuleIDs[subModuleID] = true
	return nil
}

// UpdateLimit sobrescribe el valor de un tipo de límite. Rechaza con
// ErrInvalidInput si el valor está por debajo del default o no es alcanzable
// desde el default en múltiplos enteros de IncrementStep. El servidor
// rechaza; el cliente puede elegir clampear para UX, pero eso es preview.
func (s *Selection) UpdateLimit(cat *Catalog, limitTypeID string, value int64) error {
	lt, ok := cat.LimitTypes[limitTypeID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := checkLimitValue(lt.DefaultLimit, lt.IncrementStep, value); err != nil {
		return err
	}
	s.Limits[limitTypeID] = value
	return nil
}

// Validate re-verifica todos los invariantes sobre una selección cruda
// (la enviada por el cliente al crear el paquete): cada referencia existe en
// el catálogo activo, cada sub-módulo tiene su padre seleccionado y cada
// límite es default + k*step.
func (s *Selection) Validate(cat *Catalog) error {
	for id := range s.ModuleIDs {
		if _, ok := cat.Modules[id]; !ok {
			return domain.ErrNotFound
		}
	}
	for id := range s.SubModuleIDs {
		sm, ok := cat.SubModules[id]
		if !ok {
			return domain.ErrNotFound
		}
		if !s.ModuleIDs[sm.ModuleID] {
			return domain.ErrInvalidInput
		}
	}
	for id, v := range s.Limits {
		lt, ok := cat.LimitTypes[id]
		if !ok {
			return domain.ErrNotFound
		}
		if err := checkLimitValue(lt.DefaultLimit, lt.IncrementStep, v); err != nil {
			return err
		}
	}
	return nil
}

// IsEmpty informa si no hay ningún módulo seleccionado. La creación de
// paquetes vacíos la rechaza el ciclo de vida de paquetes, no el cálculo
// de precio (que devuelve el costo de solo-límites).
func (s *Selection) IsEmpty() bool {
	return len(s.ModuleIDs) == 0
}

// checkLimitValue exige value = default + k*step con k entero >= 0.
func checkLimitValue(defaultLimit, step, value int64) error {
	if value < defaultLimit {
		return domain.ErrInvalidInput
	}
	if step < 1 {
		step = 1
	}
	if (value-defaultLimit)%step != 0 {
		return domain.ErrInvalidInput
	}
	return nil
}
