package risk

import (
	"context"
	"fmt"
	"log"
	"time"

	"vigil/internal/models"
	"vigil/internal/validation"
)

// Service runs the scoring pipeline: validate, score, persist, alert,
// update metrics, then kick off the async pattern scan and reputation
// check.
type Service interface {
	Submit(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	Evaluate(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
}

type service struct {
	store      TransactionStore
	history    HistoryLoader
	alerts     AlertPublisher
	metrics    MetricsUpdater
	scanner    AccountScanner
	reputation ReputationChecker
	cache      WindowCache

	// asyncTimeout bounds the fire-and-forget side effects.
	asyncTimeout time.Duration
}

// NewService creates the scoring pipeline. scanner, reputation and cache
// may be nil; the corresponding steps are skipped.
func NewService(store TransactionStore, history HistoryLoader, alerts AlertPublisher, metrics MetricsUpdater, scanner AccountScanner, reputation ReputationChecker, cache WindowCache) Service {
	if store == nil {
		panic("store is required")
	}
	if history == nil {
		panic("history loader is required")
	}
	if alerts == nil {
		panic("alert publisher is required")
	}
	if metrics == nil {
		panic("metrics updater is required")
	}

	return &service{
		store:        store,
		history:      history,
		alerts:       alerts,
		metrics:      metrics,
		scanner:      scanner,
		reputation:   reputation,
		cache:        cache,
		asyncTimeout: 30 * time.Second,
	}
}

// Submit validates and persists a new transaction, then evaluates it.
// Validation failures are fatal: the transaction is rejected before
// scoring runs.
func (s *service) Submit(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	if errs := validation.ValidateTransaction(tx); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransaction, errs[0])
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now()
	}
	tx.Status = models.TransactionStatusPending

	if err := s.store.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to persist transaction: %w", err)
	}

	return s.Evaluate(ctx, tx)
}

// Evaluate scores a persisted transaction and applies the side effects.
// Side-effect failures (score write, alert, metrics) are logged and never
// propagated; the score itself is always computed.
func (s *service) Evaluate(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	hist := s.history.Load(ctx, tx)
	score, factors := Score(tx, hist)

	tx.RiskScore = score
	if score >= AlertThreshold {
		tx.Status = models.TransactionStatusFlagged
	} else if tx.Status == models.TransactionStatusPending {
		tx.Status = models.TransactionStatusApproved
	}

	if err := s.store.Update(ctx, tx); err != nil {
		log.Printf("failed to persist score for transaction %d: %v", tx.ID, err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateWindows(ctx, tx.AccountID); err != nil {
			log.Printf("failed to invalidate window cache for account %s: %v", tx.AccountID, err)
		}
	}

	if _, err := s.alerts.Publish(ctx, tx, score, factors); err != nil {
		log.Printf("failed to publish alert for transaction %d: %v", tx.ID, err)
	}

	if _, err := s.metrics.Update(ctx, tx, score); err != nil {
		log.Printf("failed to update risk metrics for account %s: %v", tx.AccountID, err)
	}

	s.dispatchAsync(tx)

	return tx, nil
}

// dispatchAsync fires the pattern scan and reputation check without
// blocking the caller. Each runs under its own bounded context.
func (s *service) dispatchAsync(tx *models.Transaction) {
	if s.scanner != nil {
		go func(accountID string) {
			ctx, cancel := context.WithTimeout(context.Background(), s.asyncTimeout)
			defer cancel()
			if err := s.scanner.ScanAccount(ctx, accountID); err != nil {
				log.Printf("pattern scan failed for account %s: %v", accountID, err)
			}
		}(tx.AccountID)
	}

	if s.reputation != nil {
		txCopy := *tx
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.asyncTimeout)
			defer cancel()
			if _, err := s.reputation.Check(ctx, &txCopy); err != nil {
				log.Printf("reputation check failed for transaction %d: %v", txCopy.ID, err)
			}
		}()
	}
}
