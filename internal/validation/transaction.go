package validation

import (
	"time"

	"vigil/internal/models"
)

// ValidateTransaction checks the required fields on a submitted
// transaction. A non-empty result is fatal to the submission; scoring
// never runs on an invalid transaction.
func ValidateTransaction(tx *models.Transaction) []ValidationError {
	v := New()

	v.Check(tx.AccountID != "", "account_id", "account id is required")
	v.Check(tx.Amount > 0, "amount", "amount must be greater than zero")
	v.Check(len(tx.Currency) == 0 || len(tx.Currency) == 3, "currency", "currency must be a 3-letter code")
	v.Check(tx.Timestamp.Before(time.Now().Add(5*time.Minute)), "timestamp", "timestamp cannot be in the future")

	return v.Errors
}
