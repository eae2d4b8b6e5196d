package models

import "time"

// DashboardStats represents fraud-ops analytics for the monitoring UI.
type DashboardStats struct {
	TotalTransactions   int64            `json:"total_transactions"`
	TotalVolume         float64          `json:"total_volume"`
	FlaggedTransactions int64            `json:"flagged_transactions"`
	FlaggedVolume       float64          `json:"flagged_volume"`
	OpenAlerts          int64            `json:"open_alerts"`
	AlertsBySeverity    map[string]int64 `json:"alerts_by_severity"`
	ScoreDistribution   map[string]int64 `json:"score_distribution"`
	LastTransactionAt   *time.Time       `json:"last_transaction_at"`
}

// AccountDashboard is the per-account drill-down view.
type AccountDashboard struct {
	AccountID          string        `json:"account_id"`
	Metrics            *RiskMetrics  `json:"metrics,omitempty"`
	RecentTransactions []Transaction `json:"recent_transactions"`
	OpenAlerts         []FraudAlert  `json:"open_alerts"`
}
