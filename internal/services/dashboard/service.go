package dashboard

import (
	"context"
	"errors"
	"log"

	"vigil/internal/models"
	"vigil/internal/repositories"

	"gorm.io/gorm"
)

// Service assembles fraud-ops analytics for the monitoring UI.
type Service interface {
	GetOverview(ctx context.Context) (*models.DashboardStats, error)
	GetAccountOverview(ctx context.Context, accountID string) (*models.AccountDashboard, error)
}

type service struct {
	txRepo      repositories.TransactionRepository
	alertRepo   repositories.AlertRepository
	metricsRepo repositories.RiskMetricsRepository
}

func NewService(
	txRepo repositories.TransactionRepository,
	alertRepo repositories.AlertRepository,
	metricsRepo repositories.RiskMetricsRepository,
) Service {
	return &service{
		txRepo:      txRepo,
		alertRepo:   alertRepo,
		metricsRepo: metricsRepo,
	}
}

func (s *service) GetOverview(ctx context.Context) (*models.DashboardStats, error) {
	totalCount, totalVolume, err := s.txRepo.TotalVolume(ctx)
	if err != nil {
		return nil, err
	}
	flaggedCount, flaggedVolume, err := s.txRepo.FlaggedVolume(ctx)
	if err != nil {
		return nil, err
	}
	bySeverity, err := s.alertRepo.CountOpenBySeverity(ctx)
	if err != nil {
		return nil, err
	}
	var openAlerts int64
	for _, n := range bySeverity {
		openAlerts += n
	}

	dist, err := s.txRepo.ScoreDistribution(ctx)
	if err != nil {
		// The histogram is decoration; serve the rest of the overview.
		log.Printf("score distribution query failed: %v", err)
		dist = map[string]int64{}
	}

	lastAt, err := s.txRepo.LastTransactionTime(ctx)
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalTransactions:   totalCount,
		TotalVolume:         totalVolume,
		FlaggedTransactions: flaggedCount,
		FlaggedVolume:       flaggedVolume,
		OpenAlerts:          openAlerts,
		AlertsBySeverity:    bySeverity,
		ScoreDistribution:   dist,
		LastTransactionAt:   lastAt,
	}, nil
}

func (s *service) GetAccountOverview(ctx context.Context, accountID string) (*models.AccountDashboard, error) {
	metrics, err := s.metricsRepo.Get(ctx, accountID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	recent, err := s.txRepo.ListByAccount(ctx, accountID, 20, 0)
	if err != nil {
		return nil, err
	}
	open, err := s.alertRepo.ListOpenByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &models.AccountDashboard{
		AccountID:          accountID,
		Metrics:            metrics,
		RecentTransactions: recent,
		OpenAlerts:         open,
	}, nil
}
