package reputation

import (
	"context"
	"errors"
	"testing"

	"vigil/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type stubProvider struct {
	ip        Result
	device    Result
	aml       Result
	sanctions Result
	ipErr     error
}

func (p *stubProvider) CheckIP(context.Context, string) (Result, error) {
	return p.ip, p.ipErr
}

func (p *stubProvider) CheckDevice(context.Context, string) (Result, error) {
	return p.device, nil
}

func (p *stubProvider) CheckAML(context.Context, *models.Transaction) (Result, error) {
	return p.aml, nil
}

func (p *stubProvider) CheckSanctions(context.Context, *models.Transaction) (Result, error) {
	return p.sanctions, nil
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishExternal(ctx context.Context, tx *models.Transaction, score int, components map[string]int) (*models.FraudAlert, error) {
	args := m.Called(ctx, tx, score, components)
	if a, ok := args.Get(0).(*models.FraudAlert); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCheck_WeighsComponentsEqually(t *testing.T) {
	provider := &stubProvider{
		ip:        Result{Score: 40},
		device:    Result{Score: 60},
		aml:       Result{Score: 20},
		sanctions: Result{Score: 80},
	}
	publisher := new(MockPublisher)
	publisher.On("PublishExternal", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil).Maybe()

	composite, err := NewService(provider, publisher).Check(context.Background(), &models.Transaction{ID: 1})

	assert.NoError(t, err)
	// (40+60+20+80)/4
	assert.Equal(t, 50, composite)
}

func TestCheck_FailingComponentDegradesToZero(t *testing.T) {
	provider := &stubProvider{
		ip:        Result{Score: 100},
		ipErr:     errors.New("upstream timeout"),
		device:    Result{Score: 40},
		aml:       Result{Score: 40},
		sanctions: Result{Score: 40},
	}
	publisher := new(MockPublisher)

	composite, err := NewService(provider, publisher).Check(context.Background(), &models.Transaction{ID: 1})

	assert.NoError(t, err)
	assert.Equal(t, 30, composite)
	publisher.AssertNotCalled(t, "PublishExternal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheck_HighCompositeRaisesAlert(t *testing.T) {
	provider := &stubProvider{
		ip:        Result{Score: 90},
		device:    Result{Score: 80},
		aml:       Result{Score: 70},
		sanctions: Result{Score: 60},
	}
	publisher := new(MockPublisher)
	publisher.On("PublishExternal", mock.Anything, mock.Anything, 75, mock.Anything).
		Return(&models.FraudAlert{ID: 1}, nil)

	tx := &models.Transaction{ID: 9, AccountID: "acct-1"}
	composite, err := NewService(provider, publisher).Check(context.Background(), tx)

	assert.NoError(t, err)
	assert.Equal(t, 75, composite)
	publisher.AssertExpectations(t)
}

func TestMockProvider_IsDeterministic(t *testing.T) {
	p := NewMockProvider(0)

	first, err := p.CheckIP(context.Background(), "203.0.113.7")
	assert.NoError(t, err)
	second, err := p.CheckIP(context.Background(), "203.0.113.7")
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first.Score, 0)
	assert.LessOrEqual(t, first.Score, 100)
}
