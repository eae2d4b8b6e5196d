package reputation

import (
	"context"
	"log"
	"math"

	"vigil/internal/models"
	"vigil/internal/services/risk"
)

// Each of the four checks contributes a quarter of the composite score.
const componentWeight = 0.25

// AlertPublisher raises external-check alerts.
type AlertPublisher interface {
	PublishExternal(ctx context.Context, tx *models.Transaction, score int, components map[string]int) (*models.FraudAlert, error)
}

// Service runs the four external checks and feeds the composite score
// into the alerting pipeline.
type Service struct {
	provider  Provider
	publisher AlertPublisher
}

// NewService creates a reputation check service.
func NewService(provider Provider, publisher AlertPublisher) *Service {
	if provider == nil {
		panic("provider is required")
	}
	if publisher == nil {
		panic("publisher is required")
	}
	return &Service{provider: provider, publisher: publisher}
}

// Check runs IP, device, AML and sanctions checks, weighted equally.
// A failing check degrades to zero; the composite is still produced.
// Composites at or above the alert threshold raise an external-check
// alert through the shared publisher.
func (s *Service) Check(ctx context.Context, tx *models.Transaction) (int, error) {
	components := map[string]int{
		ComponentIP:        s.component(ctx, tx, ComponentIP),
		ComponentDevice:    s.component(ctx, tx, ComponentDevice),
		ComponentAML:       s.component(ctx, tx, ComponentAML),
		ComponentSanctions: s.component(ctx, tx, ComponentSanctions),
	}

	weighted := 0.0
	for _, score := range components {
		weighted += componentWeight * float64(score)
	}
	composite := int(math.Round(weighted))

	if composite >= risk.AlertThreshold {
		if _, err := s.publisher.PublishExternal(ctx, tx, composite, components); err != nil {
			log.Printf("failed to publish external-check alert for transaction %d: %v", tx.ID, err)
		}
	}
	return composite, nil
}

func (s *Service) component(ctx context.Context, tx *models.Transaction, name string) int {
	var res Result
	var err error
	switch name {
	case ComponentIP:
		res, err = s.provider.CheckIP(ctx, tx.IPAddress)
	case ComponentDevice:
		res, err = s.provider.CheckDevice(ctx, tx.DeviceID)
	case ComponentAML:
		res, err = s.provider.CheckAML(ctx, tx)
	case ComponentSanctions:
		res, err = s.provider.CheckSanctions(ctx, tx)
	}
	if err != nil {
		log.Printf("%s check failed for transaction %d: %v", name, tx.ID, err)
		return 0
	}
	return res.Score
}
