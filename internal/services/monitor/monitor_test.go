package monitor

import (
	"context"
	"testing"
	"time"

	"vigil/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) ListByAccountSince(ctx context.Context, accountID string, since time.Time) ([]models.Transaction, error) {
	args := m.Called(ctx, accountID, since)
	if txs, ok := args.Get(0).([]models.Transaction); ok {
		return txs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSource) ActiveAccounts(ctx context.Context, since time.Time) ([]string, error) {
	args := m.Called(ctx, since)
	if accounts, ok := args.Get(0).([]string); ok {
		return accounts, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishPattern(ctx context.Context, method, severity string, group []models.Transaction, detail string) (*models.FraudAlert, error) {
	args := m.Called(ctx, method, severity, group, detail)
	if a, ok := args.Get(0).(*models.FraudAlert); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 10, hour, minute, 0, 0, time.UTC)
}

func scanWith(t *testing.T, txs []models.Transaction) *MockPublisher {
	t.Helper()
	source := new(MockSource)
	publisher := new(MockPublisher)
	source.On("ListByAccountSince", mock.Anything, "acct-1", mock.Anything).Return(txs, nil)
	publisher.On("PublishPattern", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil).Maybe()

	err := NewMonitor(source, publisher).ScanAccount(context.Background(), "acct-1")
	assert.NoError(t, err)
	return publisher
}

func TestMonitor_DetectsStructuring(t *testing.T) {
	txs := []models.Transaction{
		{ID: 1, AccountID: "acct-1", Amount: 9000, Timestamp: at(9, 0)},
		{ID: 2, AccountID: "acct-1", Amount: 9200, Timestamp: at(13, 0)},
		{ID: 3, AccountID: "acct-1", Amount: 8900, Timestamp: at(17, 0)},
	}

	publisher := scanWith(t, txs)
	publisher.AssertCalled(t, "PublishPattern", mock.Anything, models.DetectionStructuring,
		models.SeverityHigh, txs, mock.Anything)
}

func TestMonitor_TwoTransactionsAreNotStructuring(t *testing.T) {
	txs := []models.Transaction{
		{ID: 1, AccountID: "acct-1", Amount: 9000, Timestamp: at(9, 0)},
		{ID: 2, AccountID: "acct-1", Amount: 9200, Timestamp: at(13, 0)},
	}

	publisher := scanWith(t, txs)
	publisher.AssertNotCalled(t, "PublishPattern", mock.Anything, models.DetectionStructuring,
		mock.Anything, mock.Anything, mock.Anything)
}

func TestMonitor_AmountsAtCeilingAreNotStructuring(t *testing.T) {
	txs := []models.Transaction{
		{ID: 1, AccountID: "acct-1", Amount: 9500, Timestamp: at(9, 0)},
		{ID: 2, AccountID: "acct-1", Amount: 12000, Timestamp: at(13, 0)},
		{ID: 3, AccountID: "acct-1", Amount: 9500, Timestamp: at(17, 0)},
	}

	publisher := scanWith(t, txs)
	publisher.AssertNotCalled(t, "PublishPattern", mock.Anything, models.DetectionStructuring,
		mock.Anything, mock.Anything, mock.Anything)
}

func TestMonitor_DetectsVelocityBurst(t *testing.T) {
	txs := []models.Transaction{
		{ID: 1, AccountID: "acct-1", Amount: 100, Timestamp: at(10, 0)},
		{ID: 2, AccountID: "acct-1", Amount: 100, Timestamp: at(10, 10)},
		{ID: 3, AccountID: "acct-1", Amount: 100, Timestamp: at(10, 25)},
	}

	publisher := scanWith(t, txs)
	publisher.AssertCalled(t, "PublishPattern", mock.Anything, models.DetectionVelocity,
		models.SeverityMedium, txs, mock.Anything)
}

func TestMonitor_SpreadTransactionsAreNotABurst(t *testing.T) {
	txs := []models.Transaction{
		{ID: 1, AccountID: "acct-1", Amount: 100, Timestamp: at(10, 0)},
		{ID: 2, AccountID: "acct-1", Amount: 100, Timestamp: at(11, 0)},
		{ID: 3, AccountID: "acct-1", Amount: 100, Timestamp: at(12, 0)},
	}

	publisher := scanWith(t, txs)
	publisher.AssertNotCalled(t, "PublishPattern", mock.Anything, models.DetectionVelocity,
		mock.Anything, mock.Anything, mock.Anything)
}

func TestMonitor_DetectsRoundAmounts(t *testing.T) {
	txs := []models.Transaction{
		{ID: 1, AccountID: "acct-1", Amount: 2000, Status: models.TransactionStatusCompleted, Timestamp: at(9, 0)},
		{ID: 2, AccountID: "acct-1", Amount: 5000, Status: models.TransactionStatusCompleted, Timestamp: at(15, 0)},
	}

	publisher := scanWith(t, txs)
	publisher.AssertCalled(t, "PublishPattern", mock.Anything, models.DetectionRoundAmount,
		models.SeverityMedium, txs, mock.Anything)
}

func TestMonitor_RoundAmountsRequireCompletedStatus(t *testing.T) {
	txs := []models.Transaction{
		{ID: 1, AccountID: "acct-1", Amount: 2000, Status: models.TransactionStatusPending, Timestamp: at(9, 0)},
		{ID: 2, AccountID: "acct-1", Amount: 5000.50, Status: models.TransactionStatusCompleted, Timestamp: at(15, 0)},
	}

	publisher := scanWith(t, txs)
	publisher.AssertNotCalled(t, "PublishPattern", mock.Anything, models.DetectionRoundAmount,
		mock.Anything, mock.Anything, mock.Anything)
}

func TestMonitor_ScanSweepsActiveAccounts(t *testing.T) {
	source := new(MockSource)
	publisher := new(MockPublisher)

	source.On("ActiveAccounts", mock.Anything, mock.Anything).Return([]string{"acct-1", "acct-2"}, nil)
	source.On("ListByAccountSince", mock.Anything, "acct-1", mock.Anything).Return([]models.Transaction{}, nil)
	source.On("ListByAccountSince", mock.Anything, "acct-2", mock.Anything).Return([]models.Transaction{}, nil)

	err := NewMonitor(source, publisher).Scan(context.Background())

	assert.NoError(t, err)
	source.AssertExpectations(t)
}
