package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/catalog"
)

// CatalogHandler lecturas del catálogo de módulos y tipos de límite (protegido).
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// ListModules godoc
// @Summary      Listar módulos del catálogo con sub-módulos anidados
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ModuleResponse
// @Router       /api/packages/catalog/modules [get]
func (h *CatalogHandler) ListModules(c *fiber.Ctx) error {
	out, err := h.uc.ListModules(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListLimitTypes godoc
// @Summary      Listar tipos de límite configurables
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LimitTypeResponse
// @Router       /api/packages/catalog/limits [get]
func (h *CatalogHandler) ListLimitTypes(c *fiber.Ctx) error {
	out, err := h.uc.ListLimitTypes(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
