package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados de suscripciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransitionSubscription_TransicionesPermitidas(t *testing.T) {
	permitidas := [][2]string{
		{entity.SubscriptionStatusTrial, entity.SubscriptionStatusActive},
		{entity.SubscriptionStatusTrial, entity.SubscriptionStatusExpired},
		{entity.SubscriptionStatusTrial, entity.SubscriptionStatusCancelled},
		{entity.SubscriptionStatusActive, entity.SubscriptionStatusGracePeriod},
		{entity.SubscriptionStatusActive, entity.SubscriptionStatusCancelled},
		{entity.SubscriptionStatusGracePeriod, entity.SubscriptionStatusActive},
		{entity.SubscriptionStatusGracePeriod, entity.SubscriptionStatusSuspended},
		{entity.SubscriptionStatusGracePeriod, entity.SubscriptionStatusCancelled},
		{entity.SubscriptionStatusSuspended, entity.SubscriptionStatusCancelled},
	}
	for _, tr := range permitidas {
		assert.True(t, entity.CanTransitionSubscription(tr[0], tr[1]),
			"%s -> %s debe estar permitida", tr[0], tr[1])
	}
}

// Nada sale de cancelled ni de expired.
func TestCanTransitionSubscription_TerminalesNoSalen(t *testing.T) {
	destinos := []string{
		entity.SubscriptionStatusTrial,
		entity.SubscriptionStatusActive,
		entity.SubscriptionStatusGracePeriod,
		entity.SubscriptionStatusSuspended,
		entity.SubscriptionStatusCancelled,
		entity.SubscriptionStatusExpired,
	}
	for _, terminal := range []string{entity.SubscriptionStatusCancelled, entity.SubscriptionStatusExpired} {
		for _, to := range destinos {
			assert.False(t, entity.CanTransitionSubscription(terminal, to),
				"%s -> %s no debe estar permitida", terminal, to)
		}
	}
}

// No hay resurrección directa de suspended a active: se requiere un pago
// registrado vía el flujo de renovación, no una transición administrativa.
func TestCanTransitionSubscription_SuspendedNoVuelveDirecto(t *testing.T) {
	assert.False(t, entity.CanTransitionSubscription(
		entity.SubscriptionStatusSuspended, entity.SubscriptionStatusActive))
	assert.False(t, entity.CanTransitionSubscription(
		entity.SubscriptionStatusSuspended, entity.SubscriptionStatusGracePeriod))
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de la entidad
// ──────────────────────────────────────────────────────────────────────────────

func TestSubscription_IsTerminal(t *testing.T) {
	assert.True(t, (&entity.Subscription{Status: entity.SubscriptionStatusCancelled}).IsTerminal())
	assert.True(t, (&entity.Subscription{Status: entity.SubscriptionStatusExpired}).IsTerminal())
	assert.False(t, (&entity.Subscription{Status: entity.SubscriptionStatusSuspended}).IsTerminal())
	assert.False(t, (&entity.Subscription{Status: entity.SubscriptionStatusGracePeriod}).IsTerminal())
}

func TestSubscription_GraceDeadline(t *testing.T) {
	renewal := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	sub := &entity.Subscription{RenewalDate: renewal, GracePeriodDays: 7}

	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), sub.GraceDeadline())
}

func TestSubscription_IsDue(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	antes := now.Add(-time.Hour)
	despues := now.Add(time.Hour)

	// Trial: vence por trial_ends_at.
	trial := &entity.Subscription{Status: entity.SubscriptionStatusTrial, TrialEndsAt: &antes}
	assert.True(t, trial.IsDue(now))
	trial.TrialEndsAt = &despues
	assert.False(t, trial.IsDue(now))

	// Active y grace: vencen por renewal_date.
	active := &entity.Subscription{Status: entity.SubscriptionStatusActive, RenewalDate: antes}
	assert.True(t, active.IsDue(now))
	grace := &entity.Subscription{Status: entity.SubscriptionStatusGracePeriod, RenewalDate: antes}
	assert.True(t, grace.IsDue(now))

	// Terminales y suspended nunca están due.
	for _, st := range []string{
		entity.SubscriptionStatusSuspended,
		entity.SubscriptionStatusCancelled,
		entity.SubscriptionStatusExpired,
	} {
		s := &entity.Subscription{Status: st, RenewalDate: antes, TrialEndsAt: &antes}
		assert.False(t, s.IsDue(now), "estado %s no debe estar due", st)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados de paquetes
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransitionPackage(t *testing.T) {
	assert.True(t, entity.CanTransitionPackage(entity.PackageStatusDraft, entity.PackageStatusActive))
	assert.True(t, entity.CanTransitionPackage(entity.PackageStatusActive, entity.PackageStatusSuspended))
	assert.True(t, entity.CanTransitionPackage(entity.PackageStatusSuspended, entity.PackageStatusActive))
	assert.True(t, entity.CanTransitionPackage(entity.PackageStatusActive, entity.PackageStatusCancelled))

	// La activación es una sola vez: active -> active no existe.
	assert.False(t, entity.CanTransitionPackage(entity.PackageStatusActive, entity.PackageStatusActive))
	// draft no se cancela ni suspende directo.
	assert.False(t, entity.CanTransitionPackage(entity.PackageStatusDraft, entity.PackageStatusSuspended))
	// cancelled es terminal.
	assert.False(t, entity.CanTransitionPackage(entity.PackageStatusCancelled, entity.PackageStatusActive))
	assert.False(t, entity.CanTransitionPackage(entity.PackageStatusCancelled, entity.PackageStatusDraft))
}
