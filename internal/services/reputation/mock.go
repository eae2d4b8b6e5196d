package reputation

import (
	"context"
	"hash/fnv"

	"vigil/internal/models"
)

// MockProvider is a deterministic stand-in for real third-party APIs.
// Scores derive from a hash of the input, so the same transaction always
// checks the same way in tests and local development.
type MockProvider struct {
	// Seed shifts the derived scores so fixtures can steer outcomes.
	Seed uint32
}

func NewMockProvider(seed uint32) *MockProvider {
	return &MockProvider{Seed: seed}
}

func (p *MockProvider) CheckIP(_ context.Context, ip string) (Result, error) {
	return p.derive("ip:" + ip), nil
}

func (p *MockProvider) CheckDevice(_ context.Context, deviceID string) (Result, error) {
	return p.derive("device:" + deviceID), nil
}

func (p *MockProvider) CheckAML(_ context.Context, tx *models.Transaction) (Result, error) {
	return p.derive("aml:" + tx.AccountID), nil
}

func (p *MockProvider) CheckSanctions(_ context.Context, tx *models.Transaction) (Result, error) {
	return p.derive("sanctions:" + tx.Merchant), nil
}

func (p *MockProvider) derive(input string) Result {
	h := fnv.New32a()
	h.Write([]byte(input))
	score := int((h.Sum32() + p.Seed) % 101)
	return Result{Score: score, Detail: "mock check for " + input}
}
