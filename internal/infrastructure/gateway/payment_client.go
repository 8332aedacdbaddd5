// Package gateway implementa el adaptador HTTP hacia la pasarela de pagos.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/billing"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain"
)

// Asegura que HTTPPaymentClient implementa billing.PaymentGateway.
var _ billing.PaymentGateway = (*HTTPPaymentClient)(nil)

// HTTPPaymentClient consulta a la pasarela el último resultado de cobro de una
// suscripción. Cualquier fallo de transporte (timeout, conexión rechazada,
// respuesta 5xx) se mapea a domain.ErrGatewayUnavailable: el sweep lo trata
// como "resultado desconocido, reintentar", nunca como pago fallido.
type HTTPPaymentClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPPaymentClient construye el cliente con el timeout configurado.
func NewHTTPPaymentClient(baseURL string, timeout time.Duration) *HTTPPaymentClient {
	return &HTTPPaymentClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// latestOutcomeResponse respuesta JSON de la pasarela.
type latestOutcomeResponse struct {
	SubscriptionID string `json:"subscription_id"`
	Outcome        string `json:"outcome"` // "succeeded" | "failed" | "none"
}

// LatestOutcome consulta GET /v1/subscriptions/{id}/latest-outcome.
func (c *HTTPPaymentClient) LatestOutcome(ctx context.Context, subscriptionID string) (billing.Outcome, error) {
	url := fmt.Sprintf("%s/v1/subscriptions/%s/latest-outcome", c.baseURL, subscriptionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("gateway: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeout del cliente, cancelación del ctx o fallo de red: resultado
		// desconocido, no interpretable.
		return "", fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// La pasarela no conoce la suscripción: sin intentos registrados.
		return billing.OutcomeNone, nil
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: status %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("gateway: status inesperado %d", resp.StatusCode)
	}

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return "", fmt.Errorf("%w: leer respuesta: %v", domain.ErrGatewayUnavailable, err)
	}

	var body latestOutcomeResponse
	if err := json.Unmarshal(rawBody, &body); err != nil {
		return "", fmt.Errorf("gateway: parsear respuesta: %w", err)
	}

	switch billing.Outcome(body.Outcome) {
	case billing.OutcomeSucceeded, billing.OutcomeFailed, billing.OutcomeNone:
		return billing.Outcome(body.Outcome), nil
	default:
		return "", fmt.Errorf("gateway: resultado desconocido %q", body.Outcome)
	}
}
