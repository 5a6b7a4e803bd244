package session

import (
	"context"

	"github.com/jhoicas/Inmobiliaria-crm/pkg/retry"
)

type retryingGateway struct {
	Gateway
	policy retry.Policy
}

// WithRetry decora FetchRow del gateway con la política de reintentos. El resto
// de operaciones no se reintenta (SignOut y UpdateRow no son seguras de repetir
// a ciegas).
func WithRetry(gw Gateway, p retry.Policy) Gateway {
	return &retryingGateway{Gateway: gw, policy: p}
}

func (g *retryingGateway) FetchRow(ctx context.Context, table string, filter Filter) (Row, error) {
	return retry.Do(ctx, g.policy, func(ctx context.Context) (Row, error) {
		return g.Gateway.FetchRow(ctx, table, filter)
	})
}
