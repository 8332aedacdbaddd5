// Package subscription implementa la máquina de estados de suscripciones
// Phase 7: trial -> active -> grace_period -> suspended, con cancelled y
// expired como terminales, renovación anual y upgrade de paquete con efecto
// inmediato.
package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/billing"
	"github.com/gajjarumesh/erp-beta-sub001/internal/application/dto"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/repository"
)

// Config políticas del ciclo de vida.
type Config struct {
	DefaultTrialDays int
	DefaultGraceDays int
}

// UseCase ciclo de vida de suscripciones. Es el único componente que muta
// filas de suscripción; los handlers solo delegan aquí.
type UseCase struct {
	txRunner TxRunner
	subRepo  repository.SubscriptionRepository
	cfg      Config
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, subRepo repository.SubscriptionRepository, cfg Config) *UseCase {
	if cfg.DefaultTrialDays <= 0 {
		cfg.DefaultTrialDays = 14
	}
	if cfg.DefaultGraceDays <= 0 {
		cfg.DefaultGraceDays = 7
	}
	return &UseCase{txRunner: txRunner, subRepo: subRepo, cfg: cfg}
}

// StartTrial crea una suscripción en trial sobre un paquete activo del
// tenant. renewalDate = trialEndsAt: la conversión del trial reutiliza el
// mecanismo de renovación. Si el tenant ya tiene una suscripción no terminal
// el índice único dispara ErrConflict.
func (uc *UseCase) StartTrial(ctx context.Context, tenantID string, in dto.StartTrialRequest) (*dto.SubscriptionResponse, error) {
	trialDays := in.TrialDays
	if trialDays <= 0 {
		trialDays = uc.cfg.DefaultTrialDays
	}
	var out *dto.SubscriptionResponse
	err := uc.txRunner.RunSubscription(ctx, func(subRepo repository.SubscriptionRepository, pkgRepo repository.PackageRepository) error {
		pkg, err := uc.requireActivePackage(ctx, pkgRepo, tenantID, in.PackageID)
		if err != nil {
			return err
		}
		now := time.Now()
		trialEnds := now.AddDate(0, 0, trialDays)
		sub := &entity.Subscription{
			ID:                 uuid.New().String(),
			TenantID:           tenantID,
			CustomPackageID:    pkg.ID,
			Status:             entity.SubscriptionStatusTrial,
			BillingCycle:       entity.BillingCycleYearly,
			YearlyAmount:       pkg.TotalYearlyPrice,
			StartDate:          now,
			RenewalDate:        trialEnds,
			TrialEndsAt:        &trialEnds,
			GracePeriodDays:    uc.cfg.DefaultGraceDays,
			AutoRenewalEnabled: true,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := subRepo.Create(ctx, sub); err != nil {
			return err
		}
		out = toSubscriptionResponse(sub)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Start crea una suscripción directamente activa (el primer pago ya fue
// capturado fuera de banda por la pasarela).
func (uc *UseCase) Start(ctx context.Context, tenantID string, in dto.StartSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	var out *dto.SubscriptionResponse
	err := uc.txRunner.RunSubscription(ctx, func(subRepo repository.SubscriptionRepository, pkgRepo repository.PackageRepository) error {
		pkg, err := uc.requireActivePackage(ctx, pkgRepo, tenantID, in.PackageID)
		if err != nil {
			return err
		}
		now := time.Now()
		sub := &entity.Subscription{
			ID:                 uuid.New().String(),
			TenantID:           tenantID,
			CustomPackageID:    pkg.ID,
			Status:             entity.SubscriptionStatusActive,
			BillingCycle:       entity.BillingCycleYearly,
			YearlyAmount:       pkg.TotalYearlyPrice,
			StartDate:          now,
			RenewalDate:        now.AddDate(1, 0, 0),
			GracePeriodDays:    uc.cfg.DefaultGraceDays,
			AutoRenewalEnabled: true,
			LastRenewalAt:      &now,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := subRepo.Create(ctx, sub); err != nil {
			return err
		}
		out = toSubscriptionResponse(sub)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Activate convierte el trial en activa (primer pago capturado o conversión
// manual): startDate = now, renewalDate = now + 1 año.
func (uc *UseCase) Activate(ctx context.Context, tenantID, subscriptionID string) (*dto.SubscriptionResponse, error) {
	var out *dto.SubscriptionResponse
	err := uc.txRunner.RunSubscription(ctx, func(subRepo repository.SubscriptionRepository, _ repository.PackageRepository) error {
		sub, err := uc.lockOwned(ctx, subRepo, tenantID, subscriptionID)
		if err != nil {
			return err
		}
		if !entity.CanTransitionSubscription(sub.Status, entity.SubscriptionStatusActive) {
			return domain.ErrConflict
		}
		now := time.Now()
		sub.Status = entity.SubscriptionStatusActive
		sub.StartDate = now
		sub.RenewalDate = now.AddDate(1, 0, 0)
		sub.LastRenewalAt = &now
		sub.UpdatedAt = now
		if err := subRepo.Update(ctx, sub); err != nil {
			return err
		}
		out = toSubscriptionResponse(sub)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecordRenewalOutcome aplica el resultado de pago de una renovación vencida.
// succeeded: recalcula yearlyAmount desde el paquete vinculado vigente
// (soporta upgrades de mitad de ciclo), avanza renewalDate un año y vuelve a
// active. failed desde active: grace_period. failed desde grace_period con la
// gracia vencida: suspended.
func (uc *UseCase) RecordRenewalOutcome(ctx context.Context, subscriptionID string, outcome billing.Outcome) (*dto.SubscriptionResponse, error) {
	var out *dto.SubscriptionResponse
	err := uc.txRunner.RunSubscription(ctx, func(subRepo repository.SubscriptionRepository, pkgRepo repository.PackageRepository) error {
		sub, err := subRepo.GetByIDForUpdate(ctx, subscriptionID)
		if err != nil {
			return err
		}
		if sub == nil {
			return domain.ErrNotFound
		}
		if err := applyRenewalOutcome(ctx, sub, outcome, time.Now(), subRepo, pkgRepo); err != nil {
			return err
		}
		out = toSubscriptionResponse(sub)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// applyRenewalOutcome es la transición pura de renovación, compartida entre
// el endpoint de la pasarela y el sweep (que ya tiene la fila reclamada).
func applyRenewalOutcome(ctx context.Context, sub *entity.Subscription, outcome billing.Outcome, now time.Time, subRepo repository.SubscriptionRepository, pkgRepo repository.PackageRepository) error {
	if sub.IsTerminal() {
		return domain.ErrConflict
	}
	switch outcome {
	case billing.OutcomeSucceeded:
		if sub.Status != entity.SubscriptionStatusActive &&
			sub.Status != entity.SubscriptionStatusGracePeriod &&
			sub.Status != entity.SubscriptionStatusTrial {
			return domain.ErrConflict
		}
		pkg, err := pkgRepo.GetByID(ctx, sub.CustomPackageID)
		if err != nil {
			return err
		}
		if pkg == nil {
			return domain.ErrNotFound
		}
		// Snapshot del precio vigente del paquete vinculado: un upgrade de
		// mitad de ciclo toma efecto aquí si no lo hizo antes.
		sub.YearlyAmount = pkg.TotalYearlyPrice
		if sub.Status == entity.SubscriptionStatusTrial {
			// Conversión: el ciclo anual arranca ahora.
			sub.StartDate = now
			sub.RenewalDate = now.AddDate(1, 0, 0)
		} else {
			sub.RenewalDate = sub.RenewalDate.AddDate(1, 0, 0)
		}
		sub.Status = entity.SubscriptionStatusActive
		sub.LastRenewalAt = &now
		sub.SuspendedAt = nil
	case billing.OutcomeFailed:
		switch sub.Status {
		case entity.SubscriptionStatusActive:
			sub.Status = entity.SubscriptionStatusGracePeriod
		case entity.SubscriptionStatusGracePeriod:
			if now.After(sub.GraceDeadline()) {
				sub.Status = entity.SubscriptionStatusSuspended
				sub.SuspendedAt = &now
			}
			// Dentro de la gracia: sigue en grace_period hasta el deadline.
		case entity.SubscriptionStatusTrial:
			sub.Status = entity.SubscriptionStatusExpired
		default:
			return domain.ErrConflict
		}
	default:
		return domain.ErrInvalidInput
	}
	sub.UpdatedAt = now
	return subRepo.Update(ctx, sub)
}

// Upgrade reemplaza el paquete vinculado por uno nuevo ya activo y tarifado.
// Efecto inmediato: yearlyAmount se recalcula ya, no en la próxima
// renovación. El paquete anterior queda cancelled (reemplazado).
func (uc *UseCase) Upgrade(ctx context.Context, tenantID, subscriptionID, newPackageID string) (*dto.SubscriptionResponse, error) {
	var out *dto.SubscriptionResponse
	err := uc.txRunner.RunSubscription(ctx, func(subRepo repository.SubscriptionRepository, pkgRepo repository.PackageRepository) error {
		sub, err := uc.lockOwned(ctx, subRepo, tenantID, subscriptionID)
		if err != nil {
			return err
		}
		if sub.IsTerminal() || sub.Status == entity.SubscriptionStatusSuspended {
			return domain.ErrConflict
		}
		if newPackageID == sub.CustomPackageID {
			return domain.ErrConflict
		}
		newPkg, err := pkgRepo.GetByIDForUpdate(ctx, newPackageID)
		if err != nil {
			return err
		}
		if newPkg == nil || newPkg.TenantID != tenantID {
			return domain.ErrNotFound
		}
		if newPkg.Status != entity.PackageStatusActive {
			return domain.ErrInvalidState
		}
		oldPkg, err := pkgRepo.GetByIDForUpdate(ctx, sub.CustomPackageID)
		if err != nil {
			return err
		}
		now := time.Now()
		if oldPkg != nil && entity.CanTransitionPackage(oldPkg.Status, entity.PackageStatusCancelled) {
			oldPkg.Status = entity.PackageStatusCancelled
			oldPkg.CancelledAt = &now
			oldPkg.UpdatedAt = now
			if err := pkgRepo.UpdateStatus(ctx, oldPkg); err != nil {
				return err
			}
		}
		sub.CustomPackageID = newPkg.ID
		sub.YearlyAmount = newPkg.TotalYearlyPrice
		sub.UpdatedAt = now
		if err := subRepo.Update(ctx, sub); err != nil {
			return err
		}
		out = toSubscriptionResponse(sub)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpgradeByPackage resuelve el upgrade expuesto en la ruta de paquetes:
// verifica que currentPackageID sea el paquete vigente de la suscripción
// actual del tenant y delega en Upgrade.
func (uc *UseCase) UpgradeByPackage(ctx context.Context, tenantID, currentPackageID, newPackageID string) (*dto.SubscriptionResponse, error) {
	current, err := uc.subRepo.GetCurrentByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	if current.CustomPackageID != currentPackageID {
		return nil, domain.ErrConflict
	}
	return uc.Upgrade(ctx, tenantID, current.ID, newPackageID)
}

// Cancel cancela cualquier suscripción no terminal. Inmediato e irrevocable;
// el sweep re-verifica estado tras el claim, así que es seguro llamarlo con
// una renovación en vuelo.
func (uc *UseCase) Cancel(ctx context.Context, tenantID, subscriptionID string) (*dto.SubscriptionResponse, error) {
	var out *dto.SubscriptionResponse
	err := uc.txRunner.RunSubscription(ctx, func(subRepo repository.SubscriptionRepository, _ repository.PackageRepository) error {
		sub, err := uc.lockOwned(ctx, subRepo, tenantID, subscriptionID)
		if err != nil {
			return err
		}
		if !entity.CanTransitionSubscription(sub.Status, entity.SubscriptionStatusCancelled) {
			return domain.ErrConflict
		}
		now := time.Now()
		sub.Status = entity.SubscriptionStatusCancelled
		sub.CancelledAt = &now
		sub.UpdatedAt = now
		if err := subRepo.Update(ctx, sub); err != nil {
			return err
		}
		out = toSubscriptionResponse(sub)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Current devuelve la suscripción no terminal del tenant.
func (uc *UseCase) Current(ctx context.Context, tenantID string) (*dto.SubscriptionResponse, error) {
	sub, err := uc.subRepo.GetCurrentByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrNotFound
	}
	return toSubscriptionResponse(sub), nil
}

// lockOwned bloquea la suscripción y verifica pertenencia al tenant.
func (uc *UseCase) lockOwned(ctx context.Context, subRepo repository.SubscriptionRepository, tenantID, subscriptionID string) (*entity.Subscription, error) {
	sub, err := subRepo.GetByIDForUpdate(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return sub, nil
}

// requireActivePackage valida que el paquete exista, sea del tenant y esté
// activo (el flujo de onboarding activa el paquete antes de suscribirlo).
func (uc *UseCase) requireActivePackage(ctx context.Context, pkgRepo repository.PackageRepository, tenantID, packageID string) (*entity.CustomPackage, error) {
	if packageID == "" {
		return nil, domain.ErrInvalidInput
	}
	pkg, err := pkgRepo.GetByIDForUpdate(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil || pkg.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	if pkg.Status != entity.PackageStatusActive {
		return nil, domain.ErrInvalidState
	}
	return pkg, nil
}

func toSubscriptionResponse(sub *entity.Subscription) *dto.SubscriptionResponse {
	return &dto.SubscriptionResponse{
		ID:                 sub.ID,
		TenantID:           sub.TenantID,
		CustomPackageID:    sub.CustomPackageID,
		Status:             sub.Status,
		BillingCycle:       sub.BillingCycle,
		YearlyAmount:       sub.YearlyAmount,
		StartDate:          sub.StartDate,
		RenewalDate:        sub.RenewalDate,
		TrialEndsAt:        sub.TrialEndsAt,
		GracePeriodDays:    sub.GracePeriodDays,
		AutoRenewalEnabled: sub.AutoRenewalEnabled,
		LastRenewalAt:      sub.LastRenewalAt,
		CancelledAt:        sub.CancelledAt,
		SuspendedAt:        sub.SuspendedAt,
	}
}
