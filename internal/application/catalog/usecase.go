// Package catalog expone la lectura del catálogo de módulos y tipos de
// límite, con un cache de TTL corto por delante de la DB.
package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/dto"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/repository"
)

// Claves de cache del catálogo.
const (
	cacheKeyModules    = "catalog:modules"
	cacheKeyLimitTypes = "catalog:limit_types"
)

// Cache puerto mínimo de cache (lo implementa rediscache.Client).
// Un fallo de cache degrada a lectura de DB; nunca falla el request.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// UseCase lecturas del catálogo. Solo lectura, sin efectos.
type UseCase struct {
	repo  repository.CatalogRepository
	cache Cache
	ttl   time.Duration
}

// NewUseCase construye el caso de uso. cache puede ser nil (sin cache).
func NewUseCase(repo repository.CatalogRepository, cache Cache, ttl time.Duration) *UseCase {
	return &UseCase{repo: repo, cache: cache, ttl: ttl}
}

// ListModules devuelve los módulos activos con sub-módulos anidados,
// ordenados por sort_order.
func (uc *UseCase) ListModules(ctx context.Context) ([]dto.ModuleResponse, error) {
	var out []dto.ModuleResponse
	if uc.cacheGet(ctx, cacheKeyModules, &out) {
		return out, nil
	}
	modules, err := uc.repo.ListModules(ctx)
	if err != nil {
		return nil, err
	}
	out = make([]dto.ModuleResponse, 0, len(modules))
	for _, m := range modules {
		out = append(out, toModuleResponse(m))
	}
	uc.cacheSet(ctx, cacheKeyModules, out)
	return out, nil
}

// ListLimitTypes devuelve los tipos de límite activos ordenados por sort_order.
func (uc *UseCase) ListLimitTypes(ctx context.Context) ([]dto.LimitTypeResponse, error) {
	var out []dto.LimitTypeResponse
	if uc.cacheGet(ctx, cacheKeyLimitTypes, &out) {
		return out, nil
	}
	limitTypes, err := uc.repo.ListLimitTypes(ctx)
	if err != nil {
		return nil, err
	}
	out = make([]dto.LimitTypeResponse, 0, len(limitTypes))
	for _, lt := range limitTypes {
		out = append(out, dto.LimitTypeResponse{
			ID:            lt.ID,
			Slug:          lt.Slug,
			Name:          lt.Name,
			Unit:          lt.Unit,
			DefaultLimit:  lt.DefaultLimit,
			IncrementStep: lt.IncrementStep,
			PricePerUnit:  lt.PricePerUnit,
			SortOrder:     lt.SortOrder,
		})
	}
	uc.cacheSet(ctx, cacheKeyLimitTypes, out)
	return out, nil
}

func (uc *UseCase) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if uc.cache == nil {
		return false
	}
	raw, err := uc.cache.Get(ctx, key)
	if err != nil || len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (uc *UseCase) cacheSet(ctx context.Context, key string, value interface{}) {
	if uc.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = uc.cache.Set(ctx, key, raw, uc.ttl)
}

func toModuleResponse(m *entity.ModuleDefinition) dto.ModuleResponse {
	subs := make([]dto.SubModuleResponse, 0, len(m.SubModules))
	for _, sm := range m.SubModules {
		subs = append(subs, dto.SubModuleResponse{
			ID:          sm.ID,
			ModuleID:    sm.ModuleID,
			Slug:        sm.Slug,
			Name:        sm.Name,
			YearlyPrice: sm.YearlyPrice,
		})
	}
	return dto.ModuleResponse{
		ID:          m.ID,
		Slug:        m.Slug,
		Name:        m.Name,
		Description: m.Description,
		YearlyPrice: m.YearlyPrice,
		SortOrder:   m.SortOrder,
		SubModules:  subs,
	}
}
