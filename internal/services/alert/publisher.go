// Package alert raises and maintains fraud alerts for scored
// transactions and detected patterns. Publishing is idempotent per
// (transaction, detection method): a re-detection updates the existing
// alert instead of inserting a second one.
package alert

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"vigil/internal/models"
	"vigil/internal/services/risk"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the subset of alert persistence the publisher needs.
type Repository interface {
	Create(ctx context.Context, alert *models.FraudAlert) error
	Update(ctx context.Context, alert *models.FraudAlert) error
	GetByTransactionAndMethod(ctx context.Context, transactionID uint, method string) (*models.FraudAlert, error)
}

// Notifier receives newly created alerts for downstream dispatch.
type Notifier interface {
	AlertCreated(ctx context.Context, a *models.FraudAlert)
}

type Publisher struct {
	repo     Repository
	notifier Notifier
}

// NewPublisher creates an alert publisher. notifier may be nil.
func NewPublisher(repo Repository, notifier Notifier) *Publisher {
	if repo == nil {
		panic("repo is required")
	}
	return &Publisher{repo: repo, notifier: notifier}
}

// SeverityFromScore maps a risk score to its severity band.
func SeverityFromScore(score int) string {
	switch {
	case score >= 90:
		return models.SeverityCritical
	case score >= 80:
		return models.SeverityHigh
	default:
		return models.SeverityMedium
	}
}

// Publish raises a risk-score alert for the transaction when the score
// meets the threshold. Below the threshold it is a no-op.
func (p *Publisher) Publish(ctx context.Context, tx *models.Transaction, score int, factors []risk.Factor) (*models.FraudAlert, error) {
	if score < risk.AlertThreshold {
		return nil, nil
	}

	details := models.JSON{
		"risk_score": score,
		"factors":    factorList(factors),
	}

	return p.upsert(ctx, &models.FraudAlert{
		TransactionID:   tx.ID,
		AccountID:       tx.AccountID,
		DetectionMethod: models.DetectionRiskScore,
		Severity:        SeverityFromScore(score),
		Details:         details,
	})
}

// PublishExternal raises an external-check alert from the composite
// reputation score and its component breakdown.
func (p *Publisher) PublishExternal(ctx context.Context, tx *models.Transaction, score int, components map[string]int) (*models.FraudAlert, error) {
	if score < risk.AlertThreshold {
		return nil, nil
	}

	details := models.JSON{
		"composite_score": score,
		"components":      components,
	}

	return p.upsert(ctx, &models.FraudAlert{
		TransactionID:   tx.ID,
		AccountID:       tx.AccountID,
		DetectionMethod: models.DetectionExternalCheck,
		Severity:        SeverityFromScore(score),
		Details:         details,
	})
}

// PublishPattern raises one alert for a detected transaction group,
// referencing the group's first transaction. An active alert of the same
// method on the lead transaction already queues the group for review, so
// the detection is skipped; a closed alert is reopened with the fresh
// group instead of inserting a second row.
func (p *Publisher) PublishPattern(ctx context.Context, method, severity string, group []models.Transaction, detail string) (*models.FraudAlert, error) {
	if len(group) == 0 {
		return nil, errors.New("empty pattern group")
	}
	lead := group[0]

	ids := make([]string, len(group))
	total := 0.0
	for i, tx := range group {
		ids[i] = strconv.FormatUint(uint64(tx.ID), 10)
		total += tx.Amount
	}
	details := models.JSON{
		"pattern":           method,
		"detail":            detail,
		"transaction_count": len(group),
		"total_amount":      total,
	}

	existing, err := p.repo.GetByTransactionAndMethod(ctx, lead.ID, method)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing alerts: %w", err)
	}
	if existing != nil {
		if existing.Active() {
			return nil, nil
		}
		existing.Status = models.AlertStatusNew
		existing.Severity = maxSeverity(existing.Severity, severity)
		existing.GroupedTransactionIDs = ids
		existing.Details = details
		existing.UpdatedAt = time.Now()
		if err := p.repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to reopen pattern alert: %w", err)
		}
		if p.notifier != nil {
			p.notifier.AlertCreated(ctx, existing)
		}
		return existing, nil
	}

	a := &models.FraudAlert{
		Reference:             uuid.NewString(),
		TransactionID:         lead.ID,
		AccountID:             lead.AccountID,
		DetectionMethod:       method,
		Severity:              severity,
		Status:                models.AlertStatusNew,
		GroupedTransactionIDs: ids,
		Details:               details,
	}
	if err := p.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create pattern alert: %w", err)
	}
	if p.notifier != nil {
		p.notifier.AlertCreated(ctx, a)
	}
	return a, nil
}

// upsert merges into an existing alert for the same transaction and
// method, or creates a new one with status "new".
func (p *Publisher) upsert(ctx context.Context, a *models.FraudAlert) (*models.FraudAlert, error) {
	existing, err := p.repo.GetByTransactionAndMethod(ctx, a.TransactionID, a.DetectionMethod)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up existing alert: %w", err)
	}

	if existing != nil {
		existing.Severity = maxSeverity(existing.Severity, a.Severity)
		existing.Details = a.Details
		existing.UpdatedAt = time.Now()
		if err := p.repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update alert: %w", err)
		}
		return existing, nil
	}

	a.Reference = uuid.NewString()
	a.Status = models.AlertStatusNew
	if err := p.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}
	if p.notifier != nil {
		p.notifier.AlertCreated(ctx, a)
	}
	return a, nil
}

var severityRank = map[string]int{
	models.SeverityLow:      1,
	models.SeverityMedium:   2,
	models.SeverityHigh:     3,
	models.SeverityCritical: 4,
}

func maxSeverity(a, b string) string {
	if severityRank[b] > severityRank[a] {
		return b
	}
	return a
}

func factorList(factors []risk.Factor) []map[string]interface{} {
	out := make([]map[string]interface{}, len(factors))
	for i, f := range factors {
		out[i] = map[string]interface{}{
			"type":   f.Type,
			"points": f.Points,
			"detail": f.Detail,
		}
	}
	return out
}
