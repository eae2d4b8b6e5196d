// Package reputation merges external reputation, AML and sanctions
// signals into a secondary risk score for a transaction. Providers are a
// capability interface with swappable real and mock implementations.
package reputation

import (
	"context"

	"vigil/internal/models"
)

// Check component names.
const (
	ComponentIP        = "ip_reputation"
	ComponentDevice    = "device_reputation"
	ComponentAML       = "aml"
	ComponentSanctions = "sanctions"
)

// Result is one provider check outcome: a 0-100 component score and a
// human-readable reason.
type Result struct {
	Score  int    `json:"score"`
	Detail string `json:"detail"`
}

// Provider answers the four external checks. Implementations must be
// safe for concurrent use.
type Provider interface {
	CheckIP(ctx context.Context, ip string) (Result, error)
	CheckDevice(ctx context.Context, deviceID string) (Result, error)
	CheckAML(ctx context.Context, tx *models.Transaction) (Result, error)
	CheckSanctions(ctx context.Context, tx *models.Transaction) (Result, error)
}
