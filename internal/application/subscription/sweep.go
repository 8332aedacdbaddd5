package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/billing"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/repository"
	"github.com/gajjarumesh/erp-beta-sub001/pkg/logger"
)

// Sweeper es el barrido periódico de renovaciones: encuentra suscripciones
// vencidas, las reclama una por una (FOR UPDATE SKIP LOCKED, transacción
// propia por ítem) y les aplica el resultado de pago de la pasarela.
//
// Garantías:
//   - dos corridas simultáneas sobre la misma suscripción producen una sola
//     transición (el claim es exclusivo);
//   - el fallo de un ítem no aborta el resto del barrido;
//   - si la pasarela no responde, la fila queda intacta y se reintenta en el
//     siguiente ciclo (nunca se asume pago fallido).
type Sweeper struct {
	txRunner  TxRunner
	subRepo   repository.SubscriptionRepository
	gateway   billing.PaymentGateway
	log       *logger.Logger
	interval  time.Duration
	batchSize int
}

// NewSweeper construye el sweeper.
func NewSweeper(txRunner TxRunner, subRepo repository.SubscriptionRepository, gateway billing.PaymentGateway, log *logger.Logger, interval time.Duration, batchSize int) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Sweeper{
		txRunner:  txRunner,
		subRepo:   subRepo,
		gateway:   gateway,
		log:       log,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run ejecuta el barrido en loop hasta que ctx se cancele. Corre una pasada
// inmediata al arrancar y luego una por intervalo.
func (s *Sweeper) Run(ctx context.Context) {
	s.RunOnce(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce procesa un lote de suscripciones vencidas. Devuelve cuántas
// transiciones aplicó.
func (s *Sweeper) RunOnce(ctx context.Context) int {
	now := time.Now()
	ids, err := s.subRepo.ListDueIDs(ctx, now, s.batchSize)
	if err != nil {
		s.log.Error().Err(err).Msg("sweep: listar suscripciones vencidas")
		return 0
	}
	processed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return processed
		}
		if err := s.processOne(ctx, id, now); err != nil {
			// Aislar el fallo por ítem: log y seguir con el resto.
			if errors.Is(err, domain.ErrGatewayUnavailable) {
				s.log.Warn().Str("subscription_id", id).Msg("sweep: pasarela no disponible, se reintenta en el próximo ciclo")
			} else {
				s.log.Error().Err(err).Str("subscription_id", id).Msg("sweep: procesar suscripción")
			}
			continue
		}
		processed++
	}
	return processed
}

// processOne reclama y procesa una suscripción en su propia transacción.
func (s *Sweeper) processOne(ctx context.Context, id string, now time.Time) error {
	return s.txRunner.RunSubscription(ctx, func(subRepo repository.SubscriptionRepository, pkgRepo repository.PackageRepository) error {
		sub, err := subRepo.ClaimByID(ctx, id)
		if err != nil {
			return err
		}
		if sub == nil {
			// Otra corrida (o un cancel/upgrade en vuelo) tiene la fila.
			return nil
		}
		// Re-verificar tras el claim: un cancel concurrente pudo haber
		// llegado antes que nosotros al lock.
		if sub.IsTerminal() || !sub.IsDue(now) {
			return nil
		}

		// La llamada a la pasarela ocurre con la fila reclamada; está acotada
		// por el timeout del cliente HTTP.
		outcome, err := s.gateway.LatestOutcome(ctx, sub.ID)
		if err != nil {
			return err
		}

		switch outcome {
		case billing.OutcomeNone:
			if sub.Status == entity.SubscriptionStatusTrial {
				// Trial sin medio de pago y sin conversión al vencimiento.
				sub.Status = entity.SubscriptionStatusExpired
				sub.UpdatedAt = now
				return subRepo.Update(ctx, sub)
			}
			// Resultado aún desconocido: dejar la fila para el próximo ciclo.
			return nil
		case billing.OutcomeSucceeded, billing.OutcomeFailed:
			return applyRenewalOutcome(ctx, sub, outcome, now, subRepo, pkgRepo)
		default:
			return domain.ErrInvalidInput
		}
	})
}
