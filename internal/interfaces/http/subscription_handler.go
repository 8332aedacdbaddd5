package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/billing"
	"github.com/gajjarumesh/erp-beta-sub001/internal/application/dto"
	"github.com/gajjarumesh/erp-beta-sub001/internal/application/subscription"
)

// SubscriptionHandler maneja el ciclo de vida de suscripciones (protegido).
type SubscriptionHandler struct {
	uc        *subscription.UseCase
	receiptUC *billing.ReceiptUseCase
}

// NewSubscriptionHandler construye el handler.
func NewSubscriptionHandler(uc *subscription.UseCase, receiptUC *billing.ReceiptUseCase) *SubscriptionHandler {
	return &SubscriptionHandler{uc: uc, receiptUC: receiptUC}
}

// StartTrial godoc
// @Summary      Iniciar suscripción en trial sobre un paquete activo
// @Tags         subscriptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartTrialRequest  true  "packageId y días de trial opcionales"
// @Success      201   {object}  dto.SubscriptionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/subscriptions/trial [post]
func (h *SubscriptionHandler) StartTrial(c *fiber.Ctx) error {
	var in dto.StartTrialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.PackageID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "packageId es requerido"})
	}
	out, err := h.uc.StartTrial(c.Context(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Start godoc
// @Summary      Iniciar suscripción directamente activa
// @Description  El primer pago ya fue capturado fuera de banda por la pasarela.
// @Tags         subscriptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartSubscriptionRequest  true  "packageId"
// @Success      201   {object}  dto.SubscriptionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/subscriptions [post]
func (h *SubscriptionHandler) Start(c *fiber.Ctx) error {
	var in dto.StartSubscriptionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.PackageID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "packageId es requerido"})
	}
	out, err := h.uc.Start(c.Context(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Activate godoc
// @Summary      Convertir trial en suscripción activa
// @Tags         subscriptions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la suscripción"
// @Success      200  {object}  dto.SubscriptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/subscriptions/{id}/activate [put]
func (h *SubscriptionHandler) Activate(c *fiber.Ctx) error {
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

// Cancel godoc
// @Summary      Cancelar suscripción (inmediato e irrevocable)
// @Tags         subscriptions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la suscripción"
// @Success      200  {object}  dto.SubscriptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/subscriptions/{id}/cancel [put]
func (h *SubscriptionHandler) Cancel(c *fiber.Ctx) error {
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

// Current godoc
// @Summary      Suscripción no terminal del tenant
// @Tags         subscriptions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SubscriptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subscriptions/current [get]
func (h *SubscriptionHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.Current(c.Context(), GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Recibo PDF de la suscripción con desglose a precios congelados
// @Tags         subscriptions
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la suscripción"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subscriptions/{id}/receipt [get]
func (h *SubscriptionHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	pdfBytes, err := h.receiptUC.GenerateReceipt(c.Context(), GetTenantID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="recibo-`+id+`.pdf"`)
	return c.Send(pdfBytes)
}
