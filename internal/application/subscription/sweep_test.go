package subscription_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/billing"
	"github.com/gajjarumesh/erp-beta-sub001/internal/application/subscription"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
	"github.com/gajjarumesh/erp-beta-sub001/pkg/logger"
)

// newSweepEnv arma el sweeper sobre fakes.
func newSweepEnv(t *testing.T) (*subscription.Sweeper, *fakeSubRepo, *fakePkgRepo, *fakeGateway) {
	t.Helper()
	subs := newFakeSubRepo()
	pkgs := newFakePkgRepo()
	gw := newFakeGateway()
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	sweeper := subscription.NewSweeper(&fakeTxRunner{subs: subs, pkgs: pkgs}, subs, gw, log, time.Hour, 100)
	return sweeper, subs, pkgs, gw
}

// seedDueActive inserta una suscripción activa con la renovación vencida y su
// paquete activo.
func seedDueActive(t *testing.T, subs *fakeSubRepo, pkgs *fakePkgRepo, id, tenant string) *entity.Subscription {
	t.Helper()
	pkgID := "pkg-" + id
	pkgs.put(&entity.CustomPackage{
		ID:               pkgID,
		TenantID:         tenant,
		TotalYearlyPrice: dec("10000"),
		Status:           entity.PackageStatusActive,
	})
	sub := &entity.Subscription{
		ID:              id,
		TenantID:        tenant,
		CustomPackageID: pkgID,
		Status:          entity.SubscriptionStatusActive,
		BillingCycle:    entity.BillingCycleYearly,
		YearlyAmount:    dec("10000"),
		StartDate:       time.Now().AddDate(-1, 0, 0),
		RenewalDate:     time.Now().AddDate(0, 0, -1),
		GracePeriodDays: 7,
	}
	require.NoError(t, subs.Create(context.Background(), sub))
	return sub
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones del barrido
// ──────────────────────────────────────────────────────────────────────────────

func TestSweep_PagoExitoso_Renueva(t *testing.T) {
	sweeper, subs, pkgs, gw := newSweepEnv(t)
	sub := seedDueActive(t, subs, pkgs, "sub-1", testTenant)
	gw.outcomes[sub.ID] = billing.OutcomeSucceeded

	processed := sweeper.RunOnce(context.Background())
	assert.Equal(t, 1, processed)

	stored, _ := subs.GetByID(context.Background(), sub.ID)
	assert.Equal(t, entity.SubscriptionStatusActive, stored.Status)
	assert.Equal(t, sub.RenewalDate.AddDate(1, 0, 0), stored.RenewalDate)
}

func TestSweep_PagoFallido_PasaAGracia(t *testing.T) {
	sweeper, subs, pkgs, gw := newSweepEnv(t)
	sub := seedDueActive(t, subs, pkgs, "sub-1", testTenant)
	gw.outcomes[sub.ID] = billing.OutcomeFailed

	sweeper.RunOnce(context.Background())

	stored, _ := subs.GetByID(context.Background(), sub.ID)
	assert.Equal(t, entity.SubscriptionStatusGracePeriod, stored.Status)
}

// Trial vencido sin ningún intento de pago registrado expira.
func TestSweep_TrialVencidoSinPago_Expira(t *testing.T) {
	sweeper, subs, _, _ := newSweepEnv(t)
	trialEnd := time.Now().AddDate(0, 0, -1)
	sub := &entity.Subscription{
		ID:          "sub-trial",
		TenantID:    testTenant,
		Status:      entity.SubscriptionStatusTrial,
		RenewalDate: trialEnd,
		TrialEndsAt: &trialEnd,
	}
	require.NoError(t, subs.Create(context.Background(), sub))

	sweeper.RunOnce(context.Background())

	stored, _ := subs.GetByID(context.Background(), sub.ID)
	assert.Equal(t, entity.SubscriptionStatusExpired, stored.Status)
}

// Pasarela caída: la fila queda intacta para el próximo ciclo. Nunca se
// interpreta como pago fallido.
func TestSweep_PasarelaCaida_NoMutaYReintenta(t *testing.T) {
	sweeper, subs, pkgs, gw := newSweepEnv(t)
	sub := seedDueActive(t, subs, pkgs, "sub-1", testTenant)
	gw.errs[sub.ID] = domain.ErrGatewayUnavailable

	processed := sweeper.RunOnce(context.Background())
	assert.Equal(t, 0, processed)

	stored, _ := subs.GetByID(context.Background(), sub.ID)
	assert.Equal(t, entity.SubscriptionStatusActive, stored.Status,
		"una pasarela caída no puede degradar la suscripción")
	assert.Equal(t, sub.RenewalDate.Unix(), stored.RenewalDate.Unix())

	// Segundo ciclo con la pasarela recuperada: ahora sí renueva.
	delete(gw.errs, sub.ID)
	gw.outcomes[sub.ID] = billing.OutcomeSucceeded
	processed = sweeper.RunOnce(context.Background())
	assert.Equal(t, 1, processed)
}

// Resultado aún desconocido para una activa vencida: sin transición.
func TestSweep_SinResultado_DejaLaFila(t *testing.T) {
	sweeper, subs, pkgs, gw := newSweepEnv(t)
	sub := seedDueActive(t, subs, pkgs, "sub-1", testTenant)
	gw.outcomes[sub.ID] = billing.OutcomeNone

	sweeper.RunOnce(context.Background())

	stored, _ := subs.GetByID(context.Background(), sub.ID)
	assert.Equal(t, entity.SubscriptionStatusActive, stored.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia y aislamiento de fallos
// ──────────────────────────────────────────────────────────────────────────────

// Una fila reclamada por otra corrida se salta sin error ni transición:
// dos barridos simultáneos producen exactamente una transición.
func TestSweep_FilaReclamada_SeSalta(t *testing.T) {
	sweeper, subs, pkgs, gw := newSweepEnv(t)
	sub := seedDueActive(t, subs, pkgs, "sub-1", testTenant)
	gw.outcomes[sub.ID] = billing.OutcomeSucceeded

	subs.claimed[sub.ID] = true
	sweeper.RunOnce(context.Background())

	stored, _ := subs.GetByID(context.Background(), sub.ID)
	assert.Equal(t, sub.RenewalDate.Unix(), stored.RenewalDate.Unix(),
		"una fila en manos de otra corrida no se toca")
	assert.Equal(t, 0, gw.calls, "tampoco se consulta la pasarela por una fila ajena")

	// Liberado el lock, el siguiente ciclo la procesa una sola vez.
	subs.claimed[sub.ID] = false
	processed := sweeper.RunOnce(context.Background())
	assert.Equal(t, 1, processed)
}

// Un cancel que llegó antes del claim gana: el sweep re-verifica tras
// reclamar y no revive la suscripción.
func TestSweep_CancelGanaLaCarrera(t *testing.T) {
	sweeper, subs, pkgs, gw := newSweepEnv(t)
	sub := seedDueActive(t, subs, pkgs, "sub-1", testTenant)
	gw.outcomes[sub.ID] = billing.OutcomeSucceeded

	stored, _ := subs.GetByID(context.Background(), sub.ID)
	stored.Status = entity.SubscriptionStatusCancelled
	require.NoError(t, subs.Update(context.Background(), stored))

	sweeper.RunOnce(context.Background())

	after, _ := subs.GetByID(context.Background(), sub.ID)
	assert.Equal(t, entity.SubscriptionStatusCancelled, after.Status)
}

// El fallo de un ítem no aborta el resto del lote.
func TestSweep_FalloDeUnItem_NoAbortaElLote(t *testing.T) {
	sweeper, subs, pkgs, gw := newSweepEnv(t)
	subA := seedDueActive(t, subs, pkgs, "sub-a", testTenant)
	subB := seedDueActive(t, subs, pkgs, "sub-b", testOtherTenant)
	gw.errs[subA.ID] = domain.ErrGatewayUnavailable
	gw.outcomes[subB.ID] = billing.OutcomeSucceeded

	processed := sweeper.RunOnce(context.Background())
	assert.Equal(t, 1, processed)

	storedB, _ := subs.GetByID(context.Background(), subB.ID)
	assert.Equal(t, subB.RenewalDate.AddDate(1, 0, 0).Unix(), storedB.RenewalDate.Unix(),
		"el ítem sano debe renovarse aunque otro haya fallado")
}
