// Package billing define los puertos hacia la pasarela de pagos y los casos
// de uso de soporte de facturación (recibo PDF).
package billing

import (
	"context"

	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
)

// Outcome resultado de pago reportado por la pasarela para una suscripción.
type Outcome string

const (
	// OutcomeSucceeded el último intento de cobro fue exitoso.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomeFailed el último intento de cobro falló.
	OutcomeFailed Outcome = "failed"
	// OutcomeNone la pasarela no registra aún ningún intento (ej. trial sin
	// medio de pago).
	OutcomeNone Outcome = "none"
)

// PaymentGateway puerto de salida hacia la pasarela de pagos. El protocolo
// interno de la pasarela queda fuera de alcance: este servicio solo necesita
// el último resultado. La implementación debe acotar la llamada con timeout y
// devolver domain.ErrGatewayUnavailable si no responde; ese error nunca se
// interpreta como pago fallido.
type PaymentGateway interface {
	LatestOutcome(ctx context.Context, subscriptionID string) (Outcome, error)
}

// ReceiptData datos para la representación gráfica del recibo de pago.
type ReceiptData struct {
	Subscription *entity.Subscription
	Package      *entity.CustomPackage
	Modules      []*entity.PackageModule
	SubModules   []*entity.PackageSubModule
	Limits       []*entity.PackageLimit
	// Nombres de catálogo resueltos por ID para el render.
	ModuleNames    map[string]string
	SubModuleNames map[string]string
	LimitTypeNames map[string]string
}

// ReceiptPDFGenerator puerto de generación del recibo PDF.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, data *ReceiptData) ([]byte, error)
}
