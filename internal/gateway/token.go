package gateway

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
)

// ClientToken issues a token for the client-side SDK. A nil options value is allowed.
func (g *Gateway) ClientToken(ctx context.Context, opts *ports.ClientTokenOptions) (string, error) {
	ctx, span := g.tracer.Start(ctx, "gateway.client_token")
	defer span.End()

	token, err := g.client.GenerateClientToken(ctx, opts)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("generate client token: %w", err)
	}
	return token, nil
}

// Noncify exchanges a vault token for a single-use nonce
func (g *Gateway) Noncify(ctx context.Context, token string) (string, error) {
	ctx, span := g.tracer.Start(ctx, "gateway.noncify")
	defer span.End()
	span.SetAttributes(attribute.Bool("token.present", token != ""))

	nonce, err := g.client.GenerateNonce(ctx, token)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	return nonce, nil
}
