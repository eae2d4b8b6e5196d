package models

import (
	"time"
)

// Transaction lifecycle statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusApproved  = "approved"
	TransactionStatusDeclined  = "declined"
	TransactionStatusFlagged   = "flagged"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Payment methods
const (
	PaymentMethodCreditCard     = "credit_card"
	PaymentMethodDebitCard      = "debit_card"
	PaymentMethodWireTransfer   = "wire_transfer"
	PaymentMethodDigitalWallet  = "digital_wallet"
	PaymentMethodCryptocurrency = "cryptocurrency"
)

// Transaction is a monitored payment event. The risk score and status are
// written exactly once by the scoring pipeline after submission.
type Transaction struct {
	ID               uint    `gorm:"primarykey" json:"id"`
	AccountID        string  `gorm:"index;not null" json:"account_id"`
	Amount           float64 `gorm:"not null" json:"amount"`
	Currency         string  `gorm:"default:'USD'" json:"currency"`
	PaymentMethod    string  `json:"payment_method"`
	Merchant         string  `json:"merchant"`
	MerchantCategory string  `json:"merchant_category"`
	Country          string  `gorm:"index" json:"country"`
	City             string  `json:"city"`
	IPAddress        string  `json:"ip_address"`
	DeviceID         string  `json:"device_id"`
	DeviceOS         string  `json:"device_os"`
	DeviceBrowser    string  `json:"device_browser"`
	EmulatorFlag     bool    `gorm:"default:false" json:"emulator_flag"`
	ProxyFlag        bool    `gorm:"default:false" json:"proxy_flag"`
	FingerprintFlag  bool    `gorm:"default:false" json:"fingerprint_flag"`
	Timestamp        time.Time `gorm:"index" json:"timestamp"`
	Status           string    `gorm:"not null;default:'pending'" json:"status"`
	RiskScore        int       `gorm:"default:0" json:"risk_score"`
	Metadata         JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsRoundAmount reports whether the amount has no fractional part.
func (t *Transaction) IsRoundAmount() bool {
	return t.Amount == float64(int64(t.Amount))
}
