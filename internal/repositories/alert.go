package repositories

import (
	"context"

	"vigil/internal/models"

	"gorm.io/gorm"
)

// AlertFilter narrows alert listings for the review queue.
type AlertFilter struct {
	AccountID       string
	Severity        string
	Status          string
	DetectionMethod string
}

// AlertRepository is the persistence boundary for fraud alerts.
type AlertRepository interface {
	Create(ctx context.Context, alert *models.FraudAlert) error
	Update(ctx context.Context, alert *models.FraudAlert) error
	GetByID(ctx context.Context, id uint) (*models.FraudAlert, error)
	GetByTransactionAndMethod(ctx context.Context, transactionID uint, method string) (*models.FraudAlert, error)
	List(ctx context.Context, filter AlertFilter, limit, offset int) ([]models.FraudAlert, int64, error)
	ListOpenByAccount(ctx context.Context, accountID string) ([]models.FraudAlert, error)
	CountOpenBySeverity(ctx context.Context) (map[string]int64, error)
}

type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository creates an alert repository backed by gorm.
func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *models.FraudAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *alertRepository) Update(ctx context.Context, alert *models.FraudAlert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

func (r *alertRepository) GetByID(ctx context.Context, id uint) (*models.FraudAlert, error) {
	var alert models.FraudAlert
	if err := r.db.WithContext(ctx).First(&alert, id).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepository) GetByTransactionAndMethod(ctx context.Context, transactionID uint, method string) (*models.FraudAlert, error) {
	var alert models.FraudAlert
	err := r.db.WithContext(ctx).
		Where("transaction_id = ? AND detection_method = ?", transactionID, method).
		First(&alert).Error
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepository) List(ctx context.Context, filter AlertFilter, limit, offset int) ([]models.FraudAlert, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.FraudAlert{})
	if filter.AccountID != "" {
		q = q.Where("account_id = ?", filter.AccountID)
	}
	if filter.Severity != "" {
		q = q.Where("severity = ?", filter.Severity)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DetectionMethod != "" {
		q = q.Where("detection_method = ?", filter.DetectionMethod)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var alerts []models.FraudAlert
	err := q.Limit(limit).Offset(offset).Order("created_at DESC").Find(&alerts).Error
	return alerts, total, err
}

func (r *alertRepository) ListOpenByAccount(ctx context.Context, accountID string) ([]models.FraudAlert, error) {
	var alerts []models.FraudAlert
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND status IN ?", accountID,
			[]string{models.AlertStatusNew, models.AlertStatusInvestigating}).
		Order("created_at DESC").
		Find(&alerts).Error
	return alerts, err
}

func (r *alertRepository) CountOpenBySeverity(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Severity string
		Count    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.FraudAlert{}).
		Select("severity, count(*) as count").
		Where("status IN ?", []string{models.AlertStatusNew, models.AlertStatusInvestigating}).
		Group("severity").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Severity] = rw.Count
	}
	return counts, nil
}
