package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/gajjarumesh/erp-beta-sub001/internal/domain"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/repository"
)

// Asegura que SubscriptionRepo implementa repository.SubscriptionRepository.
var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo adaptador de persistencia de suscripciones Phase 7.
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

const subscriptionColumns = `
	id, tenant_id, custom_package_id, status, billing_cycle, yearly_amount,
	start_date, renewal_date, trial_ends_at, grace_period_days,
	auto_renewal_enabled, last_renewal_at, cancelled_at, suspended_at,
	created_at, updated_at`

// Create inserta la suscripción. El índice único parcial sobre
// (tenant_id) WHERE status IN ('trial','active','grace_period') garantiza
// "a lo sumo una suscripción no terminal por tenant"; la violación 23505 se
// devuelve como ErrConflict.
func (r *SubscriptionRepo) Create(ctx context.Context, sub *entity.Subscription) error {
	const query = `
		INSERT INTO phase7_subscriptions (
			id, tenant_id, custom_package_id, status, billing_cycle, yearly_amount,
			start_date, renewal_date, trial_ends_at, grace_period_days,
			auto_renewal_enabled, last_renewal_at, cancelled_at, suspended_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		sub.ID, sub.TenantID, sub.CustomPackageID, sub.Status, sub.BillingCycle, sub.YearlyAmount,
		sub.StartDate, sub.RenewalDate, sub.TrialEndsAt, sub.GracePeriodDays,
		sub.AutoRenewalEnabled, sub.LastRenewalAt, sub.CancelledAt, sub.SuspendedAt,
		sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepo) scanSubscription(row interface{ Scan(dest ...any) error }) (*entity.Subscription, error) {
	var s entity.Subscription
	err := row.Scan(
		&s.ID, &s.TenantID, &s.CustomPackageID, &s.Status, &s.BillingCycle, &s.YearlyAmount,
		&s.StartDate, &s.RenewalDate, &s.TrialEndsAt, &s.GracePeriodDays,
		&s.AutoRenewalEnabled, &s.LastRenewalAt, &s.CancelledAt, &s.SuspendedAt,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan subscription: %w", err)
	}
	return &s, nil
}

// GetByID obtiene una suscripción por ID.
func (r *SubscriptionRepo) GetByID(ctx context.Context, id string) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM phase7_subscriptions WHERE id = $1`
	return r.scanSubscription(r.q.QueryRow(ctx, query, id))
}

// GetByIDForUpdate obtiene una suscripción bloqueando la fila
// (SELECT FOR UPDATE). Usar dentro de una transacción.
func (r *SubscriptionRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM phase7_subscriptions WHERE id = $1 FOR UPDATE`
	return r.scanSubscription(r.q.QueryRow(ctx, query, id))
}

// GetCurrentByTenant devuelve la suscripción no terminal del tenant, o nil.
func (r *SubscriptionRepo) GetCurrentByTenant(ctx context.Context, tenantID string) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + `
		FROM phase7_subscriptions
		WHERE tenant_id = $1 AND status IN ('trial', 'active', 'grace_period')
		LIMIT 1`
	return r.scanSubscription(r.q.QueryRow(ctx, query, tenantID))
}

// Update persiste todos los campos mutables de la suscripción.
func (r *SubscriptionRepo) Update(ctx context.Context, sub *entity.Subscription) error {
	const query = `
		UPDATE phase7_subscriptions
		SET custom_package_id = $2, status = $3, yearly_amount = $4,
		    start_date = $5, renewal_date = $6, trial_ends_at = $7,
		    grace_period_days = $8, auto_renewal_enabled = $9,
		    last_renewal_at = $10, cancelled_at = $11, suspended_at = $12,
		    updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		sub.ID, sub.CustomPackageID, sub.Status, sub.YearlyAmount,
		sub.StartDate, sub.RenewalDate, sub.TrialEndsAt,
		sub.GracePeriodDays, sub.AutoRenewalEnabled,
		sub.LastRenewalAt, sub.CancelledAt, sub.SuspendedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update subscription: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListDueIDs devuelve IDs de suscripciones vencidas para el sweep. Lectura
// sin bloqueo: el claim real lo hace ClaimByID fila por fila.
func (r *SubscriptionRepo) ListDueIDs(ctx context.Context, now time.Time, limit int) ([]string, error) {
	const query = `
		SELECT id FROM phase7_subscriptions
		WHERE (status = 'trial' AND trial_ends_at <= $1)
		   OR (status IN ('active', 'grace_period') AND renewal_date <= $1)
		ORDER BY renewal_date
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due subscriptions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan subscription id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ClaimByID reclama la fila para el sweep: FOR UPDATE SKIP LOCKED devuelve
// cero filas si otra transacción (otra corrida del sweep, un upgrade o un
// cancel) ya la tiene bloqueada.
func (r *SubscriptionRepo) ClaimByID(ctx context.Context, id string) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + `
		FROM phase7_subscriptions WHERE id = $1
		FOR UPDATE SKIP LOCKED`
	return r.scanSubscription(r.q.QueryRow(ctx, query, id))
}
