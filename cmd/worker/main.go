// Worker de renovaciones: corre el barrido periódico de suscripciones
// vencidas contra la pasarela de pagos. Se despliega como proceso separado
// del API; varias réplicas simultáneas son seguras (claim por fila con
// SKIP LOCKED).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/subscription"
	"github.com/gajjarumesh/erp-beta-sub001/internal/infrastructure/gateway"
	"github.com/gajjarumesh/erp-beta-sub001/internal/infrastructure/postgres"
	"github.com/gajjarumesh/erp-beta-sub001/pkg/config"
	"github.com/gajjarumesh/erp-beta-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Dur("interval", cfg.Billing.SweepInterval).
		Int("batch", cfg.Billing.SweepBatchSize).
		Msg("iniciando worker de renovaciones")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	subRepo := postgres.NewSubscriptionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	paymentGateway := gateway.NewHTTPPaymentClient(cfg.Billing.GatewayBaseURL, cfg.Billing.GatewayTimeout)

	sweeper := subscription.NewSweeper(
		txRunner, subRepo, paymentGateway, log,
		cfg.Billing.SweepInterval, cfg.Billing.SweepBatchSize,
	)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("señal de apagado recibida, deteniendo worker...")
		cancel()
	}()

	sweeper.Run(ctx)
	log.Info().Msg("worker detenido")
}
