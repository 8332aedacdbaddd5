package subscription

import (
	"context"

	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/repository"
)

// TxRunner puerto de transacciones para el ciclo de vida de suscripciones.
// Toda transición de estado lee la fila con FOR UPDATE y escribe dentro de la
// misma transacción; el upgrade toca suscripción y paquetes atómicamente.
type TxRunner interface {
	RunSubscription(ctx context.Context, fn func(subRepo repository.SubscriptionRepository, pkgRepo repository.PackageRepository) error) error
}
