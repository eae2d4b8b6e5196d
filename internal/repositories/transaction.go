package repositories

import (
	"context"
	"time"

	"vigil/internal/models"

	"gorm.io/gorm"
)

// TransactionRepository is the persistence boundary for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	Update(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	List(ctx context.Context, limit, offset int) ([]models.Transaction, int64, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.Transaction, error)
	ListByAccountSince(ctx context.Context, accountID string, since time.Time) ([]models.Transaction, error)
	ActiveAccounts(ctx context.Context, since time.Time) ([]string, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	TotalVolume(ctx context.Context) (int64, float64, error)
	FlaggedVolume(ctx context.Context) (int64, float64, error)
	ScoreDistribution(ctx context.Context) (map[string]int64, error)
	LastTransactionTime(ctx context.Context) (*time.Time, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a transaction repository backed by gorm.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *transactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).First(&tx, id).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) List(ctx context.Context, limit, offset int) ([]models.Transaction, int64, error) {
	var txs []models.Transaction
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Limit(limit).Offset(offset).
		Order("timestamp DESC").
		Find(&txs).Error
	return txs, total, err
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Limit(limit).Offset(offset).
		Order("timestamp DESC").
		Find(&txs).Error
	return txs, err
}

func (r *transactionRepository) ListByAccountSince(ctx context.Context, accountID string, since time.Time) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND timestamp >= ?", accountID, since).
		Order("timestamp ASC").
		Find(&txs).Error
	return txs, err
}

func (r *transactionRepository) ActiveAccounts(ctx context.Context, since time.Time) ([]string, error) {
	var accounts []string
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("timestamp >= ?", since).
		Distinct("account_id").
		Pluck("account_id", &accounts).Error
	return accounts, err
}

func (r *transactionRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

func (r *transactionRepository) TotalVolume(ctx context.Context) (int64, float64, error) {
	return r.volume(ctx, r.db.WithContext(ctx).Model(&models.Transaction{}))
}

func (r *transactionRepository) FlaggedVolume(ctx context.Context) (int64, float64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("status = ?", models.TransactionStatusFlagged)
	return r.volume(ctx, q)
}

func (r *transactionRepository) volume(_ context.Context, q *gorm.DB) (int64, float64, error) {
	var result struct {
		Count  int64
		Volume float64
	}
	err := q.Select("count(*) as count, coalesce(sum(amount), 0) as volume").Scan(&result).Error
	return result.Count, result.Volume, err
}

// ScoreDistribution buckets scored transactions into 20-point bands for
// the dashboard histogram.
func (r *transactionRepository) ScoreDistribution(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Bucket string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select(`CASE
			WHEN risk_score < 20 THEN '0-19'
			WHEN risk_score < 40 THEN '20-39'
			WHEN risk_score < 60 THEN '40-59'
			WHEN risk_score < 80 THEN '60-79'
			ELSE '80-100'
		END as bucket, count(*) as count`).
		Group("bucket").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	dist := make(map[string]int64, len(rows))
	for _, rw := range rows {
		dist[rw.Bucket] = rw.Count
	}
	return dist, nil
}

func (r *transactionRepository) LastTransactionTime(ctx context.Context) (*time.Time, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).Order("timestamp DESC").First(&tx).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &tx.Timestamp, nil
}
