package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartTrialRequest alta de suscripción en trial sobre un paquete activo.
type StartTrialRequest struct {
	PackageID string `json:"packageId"`
	TrialDays int    `json:"trialDays"`
}

// StartSubscriptionRequest alta de suscripción directamente activa
// (primer pago ya capturado fuera de banda).
type StartSubscriptionRequest struct {
	PackageID string `json:"packageId"`
}

// SubscriptionResponse suscripción del tenant.
type SubscriptionResponse struct {
	ID                 string          `json:"id"`
	TenantID           string          `json:"tenantId"`
	CustomPackageID    string          `json:"customPackageId"`
	Status             string          `json:"status"`
	BillingCycle       string          `json:"billingCycle"`
	YearlyAmount       decimal.Decimal `json:"yearlyAmount"`
	StartDate          time.Time       `json:"startDate"`
	RenewalDate        time.Time       `json:"renewalDate"`
	TrialEndsAt        *time.Time      `json:"trialEndsAt,omitempty"`
	GracePeriodDays    int             `json:"gracePeriodDays"`
	AutoRenewalEnabled bool            `json:"autoRenewalEnabled"`
	LastRenewalAt      *time.Time      `json:"lastRenewalAt,omitempty"`
	CancelledAt        *time.Time      `json:"cancelledAt,omitempty"`
	SuspendedAt        *time.Time      `json:"suspendedAt,omitempty"`
}
