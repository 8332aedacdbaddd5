package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una suscripción Phase 7.
const (
	SubscriptionStatusTrial       = "trial"
	SubscriptionStatusActive      = "active"
	SubscriptionStatusGracePeriod = "grace_period" // Renovación fallida, servicio aún activo
	SubscriptionStatusSuspended   = "suspended"    // Venció el período de gracia sin pago
	SubscriptionStatusCancelled   = "cancelled"    // Terminal: cancelación explícita
	SubscriptionStatusExpired     = "expired"      // Terminal: trial no convertido
)

// BillingCycleYearly es el único ciclo de facturación soportado.
const BillingCycleYearly = "yearly"

// subscriptionTransitions define las transiciones permitidas.
// expired y cancelled son terminales: nada sale de ellos.
var subscriptionTransitions = map[[2]string]bool{
	{SubscriptionStatusTrial, SubscriptionStatusActive}:        true, // conversión del trial
	{SubscriptionStatusTrial, SubscriptionStatusExpired}:       true, // trial vencido sin conversión
	{SubscriptionStatusTrial, SubscriptionStatusCancelled}:     true,
	{SubscriptionStatusActive, SubscriptionStatusGracePeriod}:  true, // renovación fallida
	{SubscriptionStatusActive, SubscriptionStatusCancelled}:    true,
	{SubscriptionStatusGracePeriod, SubscriptionStatusActive}:  true, // reintento exitoso
	{SubscriptionStatusGracePeriod, SubscriptionStatusSuspended}: true, // venció la gracia
	{SubscriptionStatusGracePeriod, SubscriptionStatusCancelled}: true,
	{SubscriptionStatusSuspended, SubscriptionStatusCancelled}:   true,
}

// CanTransitionSubscription informa si la transición de estado es válida.
func CanTransitionSubscription(from, to string) bool {
	return subscriptionTransitions[[2]string{from, to}]
}

// Subscription vincula a un tenant con exactamente un paquete vigente y
// gobierna la renovación anual. Solo el ciclo de vida de suscripciones la
// muta; nunca los handlers directamente.
type Subscription struct {
	ID              string
	TenantID        string
	CustomPackageID string
	Status          string
	BillingCycle    string
	// YearlyAmount es un snapshot del precio del paquete al momento de
	// activación/renovación/upgrade; no se recalcula fuera de esos eventos.
	YearlyAmount       decimal.Decimal
	StartDate          time.Time
	RenewalDate        time.Time
	TrialEndsAt        *time.Time
	GracePeriodDays    int
	AutoRenewalEnabled bool
	LastRenewalAt      *time.Time
	CancelledAt        *time.Time
	SuspendedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsTerminal informa si la suscripción ya no admite transiciones.
func (s *Subscription) IsTerminal() bool {
	return s.Status == SubscriptionStatusCancelled || s.Status == SubscriptionStatusExpired
}

// GraceDeadline devuelve la fecha límite del período de gracia:
// RenewalDate + GracePeriodDays.
func (s *Subscription) GraceDeadline() time.Time {
	return s.RenewalDate.AddDate(0, 0, s.GracePeriodDays)
}

// IsDue informa si la suscripción debe ser procesada por el sweep de
// renovación: estado no terminal y fecha de renovación (o fin de trial)
// alcanzada.
func (s *Subscription) IsDue(now time.Time) bool {
	switch s.Status {
	case SubscriptionStatusTrial:
		return s.TrialEndsAt != nil && !now.Before(*s.TrialEndsAt)
	case SubscriptionStatusActive, SubscriptionStatusGracePeriod:
		return !now.Before(s.RenewalDate)
	default:
		return false
	}
}
