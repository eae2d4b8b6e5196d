package repositories

import (
	"context"
	"errors"

	"vigil/internal/models"

	"gorm.io/gorm"
)

// ErrMetricsConflict is returned when a versioned metrics update loses a
// race with a concurrent writer. Callers re-read and retry.
var ErrMetricsConflict = errors.New("risk metrics version conflict")

// RiskMetricsRepository is the persistence boundary for per-account
// rolling risk metrics.
type RiskMetricsRepository interface {
	Get(ctx context.Context, accountID string) (*models.RiskMetrics, error)
	Create(ctx context.Context, m *models.RiskMetrics) error
	// UpdateVersioned applies the update only if the stored version still
	// matches m.Version, then bumps the version. Returns ErrMetricsConflict
	// when another writer got there first.
	UpdateVersioned(ctx context.Context, m *models.RiskMetrics) error
	// IncrementFraudAttempts bumps the confirmed-fraud counter without
	// touching the blended scores.
	IncrementFraudAttempts(ctx context.Context, accountID string) error
}

type riskMetricsRepository struct {
	db *gorm.DB
}

// NewRiskMetricsRepository creates a risk metrics repository backed by gorm.
func NewRiskMetricsRepository(db *gorm.DB) RiskMetricsRepository {
	return &riskMetricsRepository{db: db}
}

func (r *riskMetricsRepository) Get(ctx context.Context, accountID string) (*models.RiskMetrics, error) {
	var m models.RiskMetrics
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *riskMetricsRepository) Create(ctx context.Context, m *models.RiskMetrics) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *riskMetricsRepository) UpdateVersioned(ctx context.Context, m *models.RiskMetrics) error {
	res := r.db.WithContext(ctx).
		Model(&models.RiskMetrics{}).
		Where("account_id = ? AND version = ?", m.AccountID, m.Version).
		Updates(map[string]interface{}{
			"overall_score":      m.OverallScore,
			"transaction_score":  m.TransactionScore,
			"location_score":     m.LocationScore,
			"device_score":       m.DeviceScore,
			"behavior_score":     m.BehaviorScore,
			"flagged_count":      m.FlaggedCount,
			"fraud_attempts":     m.FraudAttempts,
			"last_calculated_at": m.LastCalculatedAt,
			"version":            m.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMetricsConflict
	}
	m.Version++
	return nil
}

func (r *riskMetricsRepository) IncrementFraudAttempts(ctx context.Context, accountID string) error {
	return r.db.WithContext(ctx).
		Model(&models.RiskMetrics{}).
		Where("account_id = ?", accountID).
		UpdateColumn("fraud_attempts", gorm.Expr("fraud_attempts + 1")).Error
}
