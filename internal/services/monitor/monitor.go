// Package monitor scans recent transactions for multi-transaction fraud
// patterns: structuring, velocity bursts and repeated round amounts.
// Each detected group produces one alert referencing the group's first
// transaction.
package monitor

import (
	"context"
	"fmt"
	"log"
	"time"

	"vigil/internal/models"
)

// Detection thresholds.
const (
	scanWindow = 24 * time.Hour

	// Structuring: several transactions each kept under the reporting
	// ceiling within one day.
	structuringCeiling  = 9500.0
	structuringMinCount = 3

	// Velocity: a burst of transactions in a short window.
	velocityBurstWindow = 30 * time.Minute
	velocityMinCount    = 3

	// Round amounts: repeated completed transactions with no cents.
	roundAmountMin      = 1000.0
	roundAmountMinCount = 2
)

// TransactionSource lists an account's recent transactions and the
// accounts active in a window.
type TransactionSource interface {
	ListByAccountSince(ctx context.Context, accountID string, since time.Time) ([]models.Transaction, error)
	ActiveAccounts(ctx context.Context, since time.Time) ([]string, error)
}

// PatternPublisher raises one alert per detected group.
type PatternPublisher interface {
	PublishPattern(ctx context.Context, method, severity string, group []models.Transaction, detail string) (*models.FraudAlert, error)
}

type Monitor struct {
	source    TransactionSource
	publisher PatternPublisher
}

// NewMonitor creates a pattern monitor.
func NewMonitor(source TransactionSource, publisher PatternPublisher) *Monitor {
	if source == nil {
		panic("source is required")
	}
	if publisher == nil {
		panic("publisher is required")
	}
	return &Monitor{source: source, publisher: publisher}
}

// Scan runs all detectors across every account active in the window.
// Per-account failures are logged and do not stop the sweep.
func (m *Monitor) Scan(ctx context.Context) error {
	accounts, err := m.source.ActiveAccounts(ctx, time.Now().Add(-scanWindow))
	if err != nil {
		return fmt.Errorf("failed to list active accounts: %w", err)
	}
	for _, accountID := range accounts {
		if err := m.ScanAccount(ctx, accountID); err != nil {
			log.Printf("pattern scan failed for account %s: %v", accountID, err)
		}
	}
	return nil
}

// ScanAccount runs all detectors over one account's trailing window.
func (m *Monitor) ScanAccount(ctx context.Context, accountID string) error {
	txs, err := m.source.ListByAccountSince(ctx, accountID, time.Now().Add(-scanWindow))
	if err != nil {
		return fmt.Errorf("failed to load window: %w", err)
	}

	if group := detectStructuring(txs); group != nil {
		m.publish(ctx, models.DetectionStructuring, models.SeverityHigh, group,
			fmt.Sprintf("%d transactions under %.0f within 24h", len(group), structuringCeiling))
	}
	if group := detectVelocityBurst(txs); group != nil {
		m.publish(ctx, models.DetectionVelocity, models.SeverityMedium, group,
			fmt.Sprintf("%d transactions within %s", len(group), velocityBurstWindow))
	}
	if group := detectRoundAmounts(txs); group != nil {
		m.publish(ctx, models.DetectionRoundAmount, models.SeverityMedium, group,
			fmt.Sprintf("%d completed round-amount transactions of %.0f or more", len(group), roundAmountMin))
	}
	return nil
}

func (m *Monitor) publish(ctx context.Context, method, severity string, group []models.Transaction, detail string) {
	if _, err := m.publisher.PublishPattern(ctx, method, severity, group, detail); err != nil {
		log.Printf("failed to publish %s alert: %v", method, err)
	}
}

// detectStructuring finds >= structuringMinCount transactions, each kept
// below the ceiling, within the window. Transactions are expected in
// ascending timestamp order.
func detectStructuring(txs []models.Transaction) []models.Transaction {
	var group []models.Transaction
	for _, tx := range txs {
		if tx.Amount < structuringCeiling && tx.Amount > 0 {
			group = append(group, tx)
		}
	}
	if len(group) >= structuringMinCount {
		return group
	}
	return nil
}

// detectVelocityBurst slides a 30-minute window over the transactions
// and returns the first group of >= velocityMinCount.
func detectVelocityBurst(txs []models.Transaction) []models.Transaction {
	for i := range txs {
		end := txs[i].Timestamp.Add(velocityBurstWindow)
		j := i
		for j < len(txs) && !txs[j].Timestamp.After(end) {
			j++
		}
		if j-i >= velocityMinCount {
			return txs[i:j]
		}
	}
	return nil
}

// detectRoundAmounts finds >= roundAmountMinCount completed transactions
// with integer amounts at or above the floor.
func detectRoundAmounts(txs []models.Transaction) []models.Transaction {
	var group []models.Transaction
	for _, tx := range txs {
		if tx.Status == models.TransactionStatusCompleted && tx.IsRoundAmount() && tx.Amount >= roundAmountMin {
			group = append(group, tx)
		}
	}
	if len(group) >= roundAmountMinCount {
		return group
	}
	return nil
}
