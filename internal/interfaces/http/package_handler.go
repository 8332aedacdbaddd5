package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/dto"
	"github.com/gajjarumesh/erp-beta-sub001/internal/application/packages"
	"github.com/gajjarumesh/erp-beta-sub001/internal/application/subscription"
)

// PackageHandler maneja el configurador y el ciclo de vida de paquetes
// personalizados (protegido).
type PackageHandler struct {
	uc    *packages.UseCase
	subUC *subscription.UseCase
}

// NewPackageHandler construye el handler.
func NewPackageHandler(uc *packages.UseCase, subUC *subscription.UseCase) *PackageHandler {
	return &PackageHandler{uc: uc, subUC: subUC}
}

// CalculatePrice godoc
// @Summary      Preview de precio anual de una selección
// @Description  El servidor siempre recalcula; el valor devuelto es el autoritativo.
// @Tags         packages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CalculatePriceRequest  true  "Selección de módulos, sub-módulos y límites"
// @Success      200   {object}  dto.CalculatePriceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/packages/calculate-price [post]
func (h *PackageHandler) CalculatePrice(c *fiber.Ctx) error {
	var in dto.CalculatePriceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CalculatePrice(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear paquete personalizado en draft
// @Tags         packages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePackageRequest  true  "Nombre y selección"
// @Success      201   {object}  dto.PackageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/packages/custom [post]
func (h *PackageHandler) Create(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.CreatePackageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.uc.CreatePackage(c.Context(), tenantID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar paquetes del tenant
// @Tags         packages
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.PackageListResponse
// @Router       /api/packages/custom [get]
func (h *PackageHandler) List(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	out, err := h.uc.List(c.Context(), tenantID, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener paquete por ID
// @Tags         packages
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paquete"
// @Success      200  {object}  dto.PackageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/packages/custom/{id} [get]
func (h *PackageHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(c.Context(), GetTenantID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetLimits godoc
// @Summary      Límites contratados del paquete (precios congelados)
// @Tags         packages
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paquete"
// @Success      200  {array}  dto.PackageLimitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/packages/custom/{id}/limits [get]
func (h *PackageHandler) GetLimits(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetLimits(c.Context(), GetTenantID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Activate godoc
// @Summary      Activar paquete (draft -> active, una sola vez)
// @Tags         packages
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paquete"
// @Success      200  {object}  dto.PackageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/packages/custom/{id}/activate [put]
func (h *PackageHandler) Activate(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Activate(c.Context(), GetTenantID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Suspend godoc
// @Summary      Suspender paquete (active -> suspended)
// @Tags         packages
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paquete"
// @Success      200  {object}  dto.PackageResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/packages/custom/{id}/suspend [put]
func (h *PackageHandler) Suspend(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Suspend(c.Context(), GetTenantID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar paquete (terminal)
// @Tags         packages
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paquete"
// @Success      200  {object}  dto.PackageResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/packages/custom/{id}/cancel [put]
func (h *PackageHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Cancel(c.Context(), GetTenantID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Upgrade godoc
// @Summary      Reemplazar el paquete vigente de la suscripción por uno nuevo
// @Description  El nuevo paquete debe estar activo. Efecto inmediato sobre el monto anual.
// @Tags         packages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del paquete vigente"
// @Param        body  body  dto.UpgradePackageRequest  true  "ID del paquete nuevo"
// @Success      200   {object}  dto.SubscriptionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/packages/custom/{id}/upgrade [put]
func (h *PackageHandler) Upgrade(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpgradePackageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.NewPackageID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "newPackageId es requerido"})
	}
	out, err := h.subUC.UpgradeByPackage(c.Context(), GetTenantID(c), id, in.NewPackageID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
