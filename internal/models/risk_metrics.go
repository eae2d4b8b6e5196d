package models

import "time"

// Component weights for the overall risk score. The overall value is
// always recomputed from the four components, never edited directly.
const (
	WeightTransaction = 0.4
	WeightLocation    = 0.2
	WeightDevice      = 0.2
	WeightBehavior    = 0.2
)

// RiskMetrics is the rolling risk profile for one account. New scores are
// blended into the transaction component; the Version column backs the
// optimistic conditional update used by concurrent writers.
type RiskMetrics struct {
	ID               uint    `gorm:"primarykey" json:"id"`
	AccountID        string  `gorm:"uniqueIndex;not null" json:"account_id"`
	OverallScore     float64 `json:"overall_score"`
	TransactionScore float64 `json:"transaction_score"`
	LocationScore    float64 `json:"location_score"`
	DeviceScore      float64 `json:"device_score"`
	BehaviorScore    float64 `json:"behavior_score"`
	FlaggedCount     int     `gorm:"default:0" json:"flagged_count"`
	FraudAttempts    int     `gorm:"default:0" json:"fraud_attempts"`
	Version          int     `gorm:"default:1" json:"-"`
	LastCalculatedAt time.Time `json:"last_calculated_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ComputeOverall derives the overall score from the stored components.
func (m *RiskMetrics) ComputeOverall() float64 {
	return WeightTransaction*m.TransactionScore +
		WeightLocation*m.LocationScore +
		WeightDevice*m.DeviceScore +
		WeightBehavior*m.BehaviorScore
}
