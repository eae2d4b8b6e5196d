package risk

import (
	"context"
	"time"

	"vigil/internal/models"
)

// TransactionStore persists transactions for the scoring pipeline.
type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	Update(ctx context.Context, tx *models.Transaction) error
	ListByAccountSince(ctx context.Context, accountID string, since time.Time) ([]models.Transaction, error)
}

// HistoryLoader assembles the account context the scorer needs.
type HistoryLoader interface {
	Load(ctx context.Context, tx *models.Transaction) History
}

// AlertPublisher raises a fraud alert for a scored transaction.
type AlertPublisher interface {
	Publish(ctx context.Context, tx *models.Transaction, score int, factors []Factor) (*models.FraudAlert, error)
}

// MetricsUpdater blends a new score into the account's rolling metrics.
type MetricsUpdater interface {
	Update(ctx context.Context, tx *models.Transaction, score int) (*models.RiskMetrics, error)
}

// AccountScanner runs the pattern monitor for one account.
type AccountScanner interface {
	ScanAccount(ctx context.Context, accountID string) error
}

// ReputationChecker runs the external reputation checks for a transaction.
type ReputationChecker interface {
	Check(ctx context.Context, tx *models.Transaction) (int, error)
}

// WindowCache caches trailing windows and known-device sets.
type WindowCache interface {
	GetWindow(ctx context.Context, accountID string, window time.Duration) ([]models.Transaction, bool, error)
	CacheWindow(ctx context.Context, accountID string, window time.Duration, txs []models.Transaction) error
	InvalidateWindows(ctx context.Context, accountID string) error
	IsKnownDevice(ctx context.Context, accountID, deviceID string) (bool, error)
	RememberDevice(ctx context.Context, accountID, deviceID string) error
}
