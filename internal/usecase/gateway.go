package usecase

import (
	"context"

	"app/internal/gateway/sslcommerz"
)

// 決済ゲートウェイへの約束。実体はsslcommerz.Client
type GatewayClient interface {
	InitSession(ctx context.Context, req sslcommerz.InitRequest) (sslcommerz.InitResponse, error)
	Validate(ctx context.Context, valID string, storeID string, storePasswd string) (sslcommerz.ValidationResponse, error)
	VerifyIPN(ctx context.Context, payload map[string]string) bool
}
