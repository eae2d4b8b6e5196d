package alert

import (
	"context"
	"testing"
	"time"

	"vigil/internal/models"
	"vigil/internal/services/risk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) Create(ctx context.Context, a *models.FraudAlert) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockRepo) Update(ctx context.Context, a *models.FraudAlert) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockRepo) GetByTransactionAndMethod(ctx context.Context, transactionID uint, method string) (*models.FraudAlert, error) {
	args := m.Called(ctx, transactionID, method)
	if a, ok := args.Get(0).(*models.FraudAlert); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) AlertCreated(ctx context.Context, a *models.FraudAlert) {
	m.Called(ctx, a)
}

func TestPublisher_BelowThresholdIsNoOp(t *testing.T) {
	repo := new(MockRepo)
	p := NewPublisher(repo, nil)

	tx := &models.Transaction{ID: 1, AccountID: "acct-1"}
	a, err := p.Publish(context.Background(), tx, 69, nil)

	assert.NoError(t, err)
	assert.Nil(t, a)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "GetByTransactionAndMethod", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublisher_CreatesNewAlert(t *testing.T) {
	tests := []struct {
		score    int
		severity string
	}{
		{70, models.SeverityMedium},
		{79, models.SeverityMedium},
		{80, models.SeverityHigh},
		{89, models.SeverityHigh},
		{90, models.SeverityCritical},
		{100, models.SeverityCritical},
	}

	for _, tt := range tests {
		repo := new(MockRepo)
		notifier := new(MockNotifier)
		p := NewPublisher(repo, notifier)

		repo.On("GetByTransactionAndMethod", mock.Anything, uint(1), models.DetectionRiskScore).
			Return(nil, gorm.ErrRecordNotFound)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		notifier.On("AlertCreated", mock.Anything, mock.Anything).Return()

		tx := &models.Transaction{ID: 1, AccountID: "acct-1"}
		factors := []risk.Factor{{Type: risk.FactorAmount, Points: 30, Detail: "amount"}}

		a, err := p.Publish(context.Background(), tx, tt.score, factors)

		assert.NoError(t, err)
		assert.NotNil(t, a)
		assert.Equal(t, tt.severity, a.Severity, "score %d", tt.score)
		assert.Equal(t, models.AlertStatusNew, a.Status)
		assert.NotEmpty(t, a.Reference)
		assert.Equal(t, models.DetectionRiskScore, a.DetectionMethod)
		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	}
}

func TestPublisher_SecondPublishUpdatesExisting(t *testing.T) {
	repo := new(MockRepo)
	notifier := new(MockNotifier)
	p := NewPublisher(repo, notifier)

	existing := &models.FraudAlert{
		ID:              3,
		Reference:       "ref-3",
		TransactionID:   1,
		DetectionMethod: models.DetectionRiskScore,
		Severity:        models.SeverityMedium,
		Status:          models.AlertStatusInvestigating,
		CreatedAt:       time.Now().Add(-time.Hour),
	}
	repo.On("GetByTransactionAndMethod", mock.Anything, uint(1), models.DetectionRiskScore).
		Return(existing, nil)
	repo.On("Update", mock.Anything, existing).Return(nil)

	tx := &models.Transaction{ID: 1, AccountID: "acct-1"}
	a, err := p.Publish(context.Background(), tx, 92, nil)

	assert.NoError(t, err)
	assert.Equal(t, uint(3), a.ID)
	// Severity only escalates, never downgrades.
	assert.Equal(t, models.SeverityCritical, a.Severity)
	assert.Equal(t, models.AlertStatusInvestigating, a.Status)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "AlertCreated", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestPublisher_PatternAlertGroupsTransactions(t *testing.T) {
	repo := new(MockRepo)
	p := NewPublisher(repo, nil)

	repo.On("GetByTransactionAndMethod", mock.Anything, uint(11), models.DetectionStructuring).
		Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	group := []models.Transaction{
		{ID: 11, AccountID: "acct-1", Amount: 3000},
		{ID: 12, AccountID: "acct-1", Amount: 3000},
		{ID: 13, AccountID: "acct-1", Amount: 3500},
	}

	a, err := p.PublishPattern(context.Background(), models.DetectionStructuring, models.SeverityHigh, group, "structuring")

	assert.NoError(t, err)
	assert.Equal(t, uint(11), a.TransactionID)
	assert.Equal(t, []string{"11", "12", "13"}, []string(a.GroupedTransactionIDs))
	assert.Equal(t, models.SeverityHigh, a.Severity)
	repo.AssertExpectations(t)
}

func TestPublisher_PatternAlertSkipsActiveDuplicate(t *testing.T) {
	repo := new(MockRepo)
	p := NewPublisher(repo, nil)

	repo.On("GetByTransactionAndMethod", mock.Anything, uint(11), models.DetectionStructuring).
		Return(&models.FraudAlert{
			ID:              3,
			TransactionID:   11,
			DetectionMethod: models.DetectionStructuring,
			Status:          models.AlertStatusInvestigating,
		}, nil)

	group := []models.Transaction{{ID: 11, AccountID: "acct-1"}}
	a, err := p.PublishPattern(context.Background(), models.DetectionStructuring, models.SeverityHigh, group, "structuring")

	assert.NoError(t, err)
	assert.Nil(t, a)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPublisher_PatternAlertReopensResolved(t *testing.T) {
	repo := new(MockRepo)
	notifier := new(MockNotifier)
	p := NewPublisher(repo, notifier)

	// A closed alert for the lead transaction must not block re-alerting
	// on fresh activity; one row per (transaction, method) is reused.
	resolved := &models.FraudAlert{
		ID:                    3,
		Reference:             "ref-3",
		TransactionID:         11,
		AccountID:             "acct-1",
		DetectionMethod:       models.DetectionStructuring,
		Severity:              models.SeverityMedium,
		Status:                models.AlertStatusResolved,
		GroupedTransactionIDs: []string{"11", "12"},
	}
	repo.On("GetByTransactionAndMethod", mock.Anything, uint(11), models.DetectionStructuring).
		Return(resolved, nil)
	repo.On("Update", mock.Anything, resolved).Return(nil)
	notifier.On("AlertCreated", mock.Anything, resolved).Return()

	group := []models.Transaction{
		{ID: 11, AccountID: "acct-1", Amount: 3000},
		{ID: 12, AccountID: "acct-1", Amount: 3000},
		{ID: 14, AccountID: "acct-1", Amount: 9000},
	}
	a, err := p.PublishPattern(context.Background(), models.DetectionStructuring, models.SeverityHigh, group, "structuring")

	assert.NoError(t, err)
	assert.Equal(t, uint(3), a.ID)
	assert.Equal(t, models.AlertStatusNew, a.Status)
	assert.Equal(t, models.SeverityHigh, a.Severity)
	assert.Equal(t, []string{"11", "12", "14"}, []string(a.GroupedTransactionIDs))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}
