package risk

import (
	"context"
	"errors"
	"testing"
	"time"

	"vigil/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHistoryLoader_SplitsBurstWindow(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	tx := &models.Transaction{ID: 10, AccountID: "acct-1", Timestamp: now}

	window := []models.Transaction{
		{ID: 1, Amount: 100, Timestamp: now.Add(-23 * time.Hour)},
		{ID: 2, Amount: 200, Timestamp: now.Add(-30 * time.Minute)},
		{ID: 10, Amount: 300, Timestamp: now}, // the transaction itself
	}

	store := new(MockStore)
	store.On("ListByAccountSince", mock.Anything, "acct-1", mock.Anything).Return(window, nil)

	hist := NewHistoryLoader(store, nil).Load(context.Background(), tx)

	assert.False(t, hist.Degraded)
	assert.Len(t, hist.Last24h, 2, "the transaction under evaluation is excluded")
	assert.Len(t, hist.Last1h, 1)
	assert.True(t, hist.KnownDevice)
}

func TestHistoryLoader_DegradesOnStoreFailure(t *testing.T) {
	tx := &models.Transaction{ID: 10, AccountID: "acct-1", Timestamp: time.Now()}

	store := new(MockStore)
	store.On("ListByAccountSince", mock.Anything, "acct-1", mock.Anything).Return(nil, errors.New("timeout"))

	hist := NewHistoryLoader(store, nil).Load(context.Background(), tx)

	assert.True(t, hist.Degraded)
	assert.Empty(t, hist.Last24h)
}
