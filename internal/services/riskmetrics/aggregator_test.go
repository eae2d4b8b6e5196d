package riskmetrics

import (
	"context"
	"testing"

	"vigil/internal/models"
	"vigil/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) Get(ctx context.Context, accountID string) (*models.RiskMetrics, error) {
	args := m.Called(ctx, accountID)
	if rm, ok := args.Get(0).(*models.RiskMetrics); ok {
		return rm, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) Create(ctx context.Context, rm *models.RiskMetrics) error {
	args := m.Called(ctx, rm)
	return args.Error(0)
}

func (m *MockRepo) UpdateVersioned(ctx context.Context, rm *models.RiskMetrics) error {
	args := m.Called(ctx, rm)
	return args.Error(0)
}

func TestAggregator_SeedsFirstRecord(t *testing.T) {
	repo := new(MockRepo)
	repo.On("Get", mock.Anything, "acct-1").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	tx := &models.Transaction{AccountID: "acct-1", Country: "US", DeviceID: "dev-1"}
	m, err := NewAggregator(repo).Update(context.Background(), tx, 80)

	assert.NoError(t, err)
	assert.Equal(t, 80.0, m.TransactionScore)
	assert.Equal(t, componentBaseline, m.LocationScore)
	assert.Equal(t, componentBaseline, m.DeviceScore)
	assert.Equal(t, componentBaseline, m.BehaviorScore)
	assert.Equal(t, 1, m.FlaggedCount)
	assert.Equal(t, m.ComputeOverall(), m.OverallScore)
	repo.AssertExpectations(t)
}

func TestAggregator_SeedWithoutLocationOrDevice(t *testing.T) {
	repo := new(MockRepo)
	repo.On("Get", mock.Anything, "acct-2").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	tx := &models.Transaction{AccountID: "acct-2"}
	m, err := NewAggregator(repo).Update(context.Background(), tx, 30)

	assert.NoError(t, err)
	assert.Equal(t, 0.0, m.LocationScore)
	assert.Equal(t, 0.0, m.DeviceScore)
	assert.Equal(t, 0, m.FlaggedCount)
}

func TestAggregator_BlendsExistingRecord(t *testing.T) {
	existing := &models.RiskMetrics{
		AccountID:        "acct-1",
		TransactionScore: 50,
		LocationScore:    25,
		DeviceScore:      25,
		BehaviorScore:    25,
		FlaggedCount:     2,
		Version:          4,
	}
	repo := new(MockRepo)
	repo.On("Get", mock.Anything, "acct-1").Return(existing, nil)
	repo.On("UpdateVersioned", mock.Anything, existing).Return(nil)

	tx := &models.Transaction{AccountID: "acct-1"}
	m, err := NewAggregator(repo).Update(context.Background(), tx, 80)

	assert.NoError(t, err)
	// 0.7*50 + 0.3*80 = 59
	assert.InDelta(t, 59.0, m.TransactionScore, 1e-9)
	assert.Equal(t, 3, m.FlaggedCount)
	// The overall score is always re-derivable from the components.
	assert.InDelta(t, m.ComputeOverall(), m.OverallScore, 1e-9)
	assert.InDelta(t, 0.4*59+0.2*(25+25+25), m.OverallScore, 1e-9)
	repo.AssertExpectations(t)
}

func TestAggregator_RetriesOnVersionConflict(t *testing.T) {
	repo := new(MockRepo)
	stale := &models.RiskMetrics{AccountID: "acct-1", TransactionScore: 50, Version: 4}
	fresh := &models.RiskMetrics{AccountID: "acct-1", TransactionScore: 60, Version: 5}

	repo.On("Get", mock.Anything, "acct-1").Return(stale, nil).Once()
	repo.On("UpdateVersioned", mock.Anything, stale).Return(repositories.ErrMetricsConflict).Once()
	repo.On("Get", mock.Anything, "acct-1").Return(fresh, nil).Once()
	repo.On("UpdateVersioned", mock.Anything, fresh).Return(nil).Once()

	tx := &models.Transaction{AccountID: "acct-1"}
	m, err := NewAggregator(repo).Update(context.Background(), tx, 40)

	assert.NoError(t, err)
	// Blended from the re-read record, not the stale one.
	assert.InDelta(t, 0.7*60+0.3*40, m.TransactionScore, 1e-9)
	repo.AssertExpectations(t)
}

func TestAggregator_GivesUpAfterBoundedRetries(t *testing.T) {
	repo := new(MockRepo)
	m := &models.RiskMetrics{AccountID: "acct-1", TransactionScore: 50, Version: 4}
	repo.On("Get", mock.Anything, "acct-1").Return(m, nil).Times(conflictRetries)
	repo.On("UpdateVersioned", mock.Anything, mock.Anything).Return(repositories.ErrMetricsConflict).Times(conflictRetries)

	tx := &models.Transaction{AccountID: "acct-1"}
	_, err := NewAggregator(repo).Update(context.Background(), tx, 40)

	assert.ErrorIs(t, err, repositories.ErrMetricsConflict)
	repo.AssertExpectations(t)
}
