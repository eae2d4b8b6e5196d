package risk

import "vigil/internal/models"

// Factor types, in evaluation order.
const (
	FactorAmount        = "amount"
	FactorTimeOfDay     = "time_of_day"
	FactorGeography     = "geography"
	FactorVelocity      = "velocity"
	FactorFrequency     = "frequency"
	FactorDevice        = "device"
	FactorMerchant      = "merchant"
	FactorPaymentMethod = "payment_method"
)

// Factor is one contributing risk signal and its point value.
type Factor struct {
	Type   string `json:"type"`
	Points int    `json:"points"`
	Detail string `json:"detail"`
}

// History is the account context the scorer evaluates a transaction
// against. Windows hold the account's prior transactions, excluding the
// one under evaluation; the scorer adds the current transaction itself.
type History struct {
	Last24h []models.Transaction
	Last1h  []models.Transaction
	// KnownDevice is false when the transaction's device has never been
	// seen on the account.
	KnownDevice bool
	// Degraded marks that the window lookup failed. Velocity and
	// frequency factors contribute zero rather than guessing.
	Degraded bool
}
