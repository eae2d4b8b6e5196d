package risk

import (
	"context"
	"log"
	"time"

	"vigil/internal/models"
)

// historyLoader builds scoring context with a cache-aside read of the
// account's trailing 24h window. The 1h burst window is derived from the
// 24h window rather than queried separately.
type historyLoader struct {
	store TransactionStore
	cache WindowCache
}

// NewHistoryLoader creates a loader over the given store and cache.
// cache may be nil; lookups then always hit the store.
func NewHistoryLoader(store TransactionStore, cache WindowCache) HistoryLoader {
	return &historyLoader{store: store, cache: cache}
}

func (l *historyLoader) Load(ctx context.Context, tx *models.Transaction) History {
	hist := History{KnownDevice: true}

	window, err := l.loadWindow(ctx, tx)
	if err != nil {
		// Degrade: velocity and frequency contribute zero.
		log.Printf("history window lookup failed for account %s: %v", tx.AccountID, err)
		hist.Degraded = true
	} else {
		burstCutoff := tx.Timestamp.Add(-frequencyBurstWindow)
		for _, prev := range window {
			if prev.ID == tx.ID {
				continue
			}
			hist.Last24h = append(hist.Last24h, prev)
			if !prev.Timestamp.Before(burstCutoff) {
				hist.Last1h = append(hist.Last1h, prev)
			}
		}
	}

	if tx.DeviceID != "" && l.cache != nil {
		known, err := l.cache.IsKnownDevice(ctx, tx.AccountID, tx.DeviceID)
		if err != nil {
			// Treat as known rather than penalizing on a cache failure.
			log.Printf("device lookup failed for account %s: %v", tx.AccountID, err)
		} else {
			hist.KnownDevice = known
			if err := l.cache.RememberDevice(ctx, tx.AccountID, tx.DeviceID); err != nil {
				log.Printf("failed to record device for account %s: %v", tx.AccountID, err)
			}
		}
	}

	return hist
}

func (l *historyLoader) loadWindow(ctx context.Context, tx *models.Transaction) ([]models.Transaction, error) {
	since := tx.Timestamp.Add(-velocityWindow)

	if l.cache != nil {
		if txs, hit, err := l.cache.GetWindow(ctx, tx.AccountID, 24*time.Hour); err == nil && hit {
			return txs, nil
		} else if err != nil {
			log.Printf("window cache read failed for account %s: %v", tx.AccountID, err)
		}
	}

	txs, err := l.store.ListByAccountSince(ctx, tx.AccountID, since)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.CacheWindow(ctx, tx.AccountID, 24*time.Hour, txs); err != nil {
			log.Printf("window cache write failed for account %s: %v", tx.AccountID, err)
		}
	}
	return txs, nil
}
