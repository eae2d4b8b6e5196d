package repositories

import (
	"context"

	"vigil/internal/models"

	"gorm.io/gorm"
)

// SecurityAlertRepository persists account-facing security notifications.
type SecurityAlertRepository interface {
	Create(ctx context.Context, alert *models.SecurityAlert) error
	GetByID(ctx context.Context, id uint) (*models.SecurityAlert, error)
	Update(ctx context.Context, alert *models.SecurityAlert) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.SecurityAlert, error)
}

type securityAlertRepository struct {
	db *gorm.DB
}

// NewSecurityAlertRepository creates a security alert repository backed by gorm.
func NewSecurityAlertRepository(db *gorm.DB) SecurityAlertRepository {
	return &securityAlertRepository{db: db}
}

func (r *securityAlertRepository) Create(ctx context.Context, alert *models.SecurityAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *securityAlertRepository) GetByID(ctx context.Context, id uint) (*models.SecurityAlert, error) {
	var alert models.SecurityAlert
	if err := r.db.WithContext(ctx).First(&alert, id).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *securityAlertRepository) Update(ctx context.Context, alert *models.SecurityAlert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

func (r *securityAlertRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.SecurityAlert, error) {
	var alerts []models.SecurityAlert
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&alerts).Error
	return alerts, err
}
