package models

import (
	"time"

	"github.com/lib/pq"
)

// Alert severities
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Alert review statuses
const (
	AlertStatusNew           = "new"
	AlertStatusInvestigating = "investigating"
	AlertStatusResolved      = "resolved"
	AlertStatusFalsePositive = "false_positive"
)

// Detection methods identify which subsystem raised an alert.
const (
	DetectionRiskScore     = "risk_score"
	DetectionExternalCheck = "external_check"
	DetectionStructuring   = "structuring"
	DetectionVelocity      = "velocity"
	DetectionRoundAmount   = "round_amount"
)

// FraudAlert flags a transaction (or a group of transactions) for human
// review. At most one active alert exists per transaction and detection
// method; re-detections update the existing row instead of inserting.
type FraudAlert struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Reference       string `gorm:"uniqueIndex;not null" json:"reference"`
	TransactionID   uint   `gorm:"uniqueIndex:idx_alert_txn_method;not null" json:"transaction_id"`
	AccountID       string `gorm:"index" json:"account_id"`
	DetectionMethod string `gorm:"uniqueIndex:idx_alert_txn_method;not null" json:"detection_method"`
	Severity        string `gorm:"not null" json:"severity"`
	Status          string `gorm:"not null;default:'new'" json:"status"`
	Details         JSON   `gorm:"type:jsonb" json:"details"`
	// GroupedTransactionIDs lists every transaction in a pattern match;
	// empty for single-transaction alerts.
	GroupedTransactionIDs pq.StringArray `gorm:"type:text[]" json:"grouped_transaction_ids,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

// Active reports whether the alert still needs reviewer attention.
func (a *FraudAlert) Active() bool {
	return a.Status == AlertStatusNew || a.Status == AlertStatusInvestigating
}

// ValidAlertTransition reports whether a reviewer may move an alert from
// one status to another. Closed alerts stay closed.
func ValidAlertTransition(from, to string) bool {
	switch from {
	case AlertStatusNew:
		return to == AlertStatusInvestigating || to == AlertStatusResolved || to == AlertStatusFalsePositive
	case AlertStatusInvestigating:
		return to == AlertStatusResolved || to == AlertStatusFalsePositive
	default:
		return false
	}
}
