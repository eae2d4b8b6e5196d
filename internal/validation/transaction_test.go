package validation

import (
	"testing"
	"time"

	"vigil/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateTransaction(t *testing.T) {
	tests := []struct {
		name      string
		tx        *models.Transaction
		wantField string
	}{
		{
			name: "valid transaction",
			tx:   &models.Transaction{AccountID: "acct-1", Amount: 50, Currency: "USD", Timestamp: time.Now()},
		},
		{
			name:      "missing account id",
			tx:        &models.Transaction{Amount: 50},
			wantField: "account_id",
		},
		{
			name:      "zero amount",
			tx:        &models.Transaction{AccountID: "acct-1", Amount: 0},
			wantField: "amount",
		},
		{
			name:      "negative amount",
			tx:        &models.Transaction{AccountID: "acct-1", Amount: -10},
			wantField: "amount",
		},
		{
			name:      "malformed currency",
			tx:        &models.Transaction{AccountID: "acct-1", Amount: 50, Currency: "DOLLARS"},
			wantField: "currency",
		},
		{
			name:      "timestamp too far in the future",
			tx:        &models.Transaction{AccountID: "acct-1", Amount: 50, Timestamp: time.Now().Add(time.Hour)},
			wantField: "timestamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateTransaction(tt.tx)

			if tt.wantField == "" {
				assert.Empty(t, errs)
				return
			}

			assert.NotEmpty(t, errs)
			fields := make([]string, 0, len(errs))
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}
