// Package riskmetrics maintains the rolling per-account risk profile.
// New transaction scores are blended into the stored components; the
// overall score is always recomputed from the components, never edited.
package riskmetrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vigil/internal/models"
	"vigil/internal/repositories"
	"vigil/internal/services/risk"

	"gorm.io/gorm"
)

// Blend weights: how much of the stored transaction component survives
// each update versus the incoming score.
const (
	blendOld = 0.7
	blendNew = 0.3
)

// componentBaseline seeds the location/device/behavior components when
// the first transaction carries the corresponding data.
const componentBaseline = 25.0

// conflictRetries bounds the optimistic-update loop. On exhaustion the
// update is dropped and logged by the caller; metrics are best-effort.
const conflictRetries = 3

// Repository is the persistence surface the aggregator needs.
type Repository interface {
	Get(ctx context.Context, accountID string) (*models.RiskMetrics, error)
	Create(ctx context.Context, m *models.RiskMetrics) error
	UpdateVersioned(ctx context.Context, m *models.RiskMetrics) error
}

type Aggregator struct {
	repo Repository
}

// NewAggregator creates a metrics aggregator.
func NewAggregator(repo Repository) *Aggregator {
	if repo == nil {
		panic("repo is required")
	}
	return &Aggregator{repo: repo}
}

// Update blends a new transaction score into the account's metrics,
// creating the record on first sight. Concurrent writers are handled
// with a version-checked update and bounded retries.
func (a *Aggregator) Update(ctx context.Context, tx *models.Transaction, score int) (*models.RiskMetrics, error) {
	for attempt := 0; attempt < conflictRetries; attempt++ {
		m, err := a.repo.Get(ctx, tx.AccountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return a.seed(ctx, tx, score)
			}
			return nil, fmt.Errorf("failed to load metrics: %w", err)
		}

		m.TransactionScore = blendOld*m.TransactionScore + blendNew*float64(score)
		m.OverallScore = m.ComputeOverall()
		if score >= risk.AlertThreshold {
			m.FlaggedCount++
		}
		m.LastCalculatedAt = time.Now()

		err = a.repo.UpdateVersioned(ctx, m)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, repositories.ErrMetricsConflict) {
			return nil, fmt.Errorf("failed to update metrics: %w", err)
		}
		// Lost the race; re-read and blend again.
	}
	return nil, repositories.ErrMetricsConflict
}

// seed creates the first metrics record for an account. The transaction
// component starts at the first score; location and device components
// start at a fixed baseline when the transaction carries that data.
func (a *Aggregator) seed(ctx context.Context, tx *models.Transaction, score int) (*models.RiskMetrics, error) {
	m := &models.RiskMetrics{
		AccountID:        tx.AccountID,
		TransactionScore: float64(score),
		BehaviorScore:    componentBaseline,
		LastCalculatedAt: time.Now(),
		Version:          1,
	}
	if tx.Country != "" {
		m.LocationScore = componentBaseline
	}
	if tx.DeviceID != "" {
		m.DeviceScore = componentBaseline
	}
	if score >= risk.AlertThreshold {
		m.FlaggedCount = 1
	}
	m.OverallScore = m.ComputeOverall()

	if err := a.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to seed metrics: %w", err)
	}
	return m, nil
}
