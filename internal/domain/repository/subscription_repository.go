package repository

import (
	"context"
	"time"

	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
)

// SubscriptionRepository puerto de persistencia de suscripciones Phase 7.
type SubscriptionRepository interface {
	// Create inserta la suscripción. Si el tenant ya tiene una suscripción
	// no terminal, el índice único parcial dispara 23505 y la implementación
	// devuelve domain.ErrConflict.
	Create(ctx context.Context, sub *entity.Subscription) error
	GetByID(ctx context.Context, id string) (*entity.Subscription, error)
	// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE) para transiciones
	// de estado. Usar dentro de una transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Subscription, error)
	// GetCurrentByTenant devuelve la suscripción no terminal del tenant, o nil.
	GetCurrentByTenant(ctx context.Context, tenantID string) (*entity.Subscription, error)
	Update(ctx context.Context, sub *entity.Subscription) error

	// ListDueIDs devuelve IDs de suscripciones vencidas para el sweep:
	// trial con trial_ends_at <= now, o active/grace_period con
	// renewal_date <= now. Lectura sin bloqueo; el claim real es ClaimByID.
	ListDueIDs(ctx context.Context, now time.Time, limit int) ([]string, error)
	// ClaimByID reclama una suscripción para el sweep con
	// SELECT ... FOR UPDATE SKIP LOCKED. Devuelve nil si otra corrida del
	// sweep (o un upgrade/cancel en vuelo) ya tiene la fila. El caller debe
	// re-verificar estado y vencimiento después del claim.
	ClaimByID(ctx context.Context, id string) (*entity.Subscription, error)
}
