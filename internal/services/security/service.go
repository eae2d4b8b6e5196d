// Package security records account-facing security notifications
// (login, device, location, settings events), decoupled from the
// transaction scoring pipeline.
package security

import (
	"context"
	"fmt"

	"vigil/internal/models"
	"vigil/internal/repositories"
)

type Service interface {
	Record(ctx context.Context, accountID, eventType, severity string, details models.JSON) (*models.SecurityAlert, error)
	List(ctx context.Context, accountID string, limit, offset int) ([]models.SecurityAlert, error)
	Acknowledge(ctx context.Context, id uint) (*models.SecurityAlert, error)
}

type service struct {
	repo repositories.SecurityAlertRepository
}

func NewService(repo repositories.SecurityAlertRepository) Service {
	return &service{repo: repo}
}

func (s *service) Record(ctx context.Context, accountID, eventType, severity string, details models.JSON) (*models.SecurityAlert, error) {
	switch eventType {
	case models.SecurityEventLogin, models.SecurityEventDevice,
		models.SecurityEventLocation, models.SecurityEventSettings:
	default:
		return nil, fmt.Errorf("unknown security event type %q", eventType)
	}
	if severity == "" {
		severity = models.SeverityLow
	}

	a := &models.SecurityAlert{
		AccountID: accountID,
		EventType: eventType,
		Severity:  severity,
		Status:    models.SecurityAlertStatusNew,
		Details:   details,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to record security alert: %w", err)
	}
	return a, nil
}

func (s *service) List(ctx context.Context, accountID string, limit, offset int) ([]models.SecurityAlert, error) {
	return s.repo.ListByAccount(ctx, accountID, limit, offset)
}

func (s *service) Acknowledge(ctx context.Context, id uint) (*models.SecurityAlert, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = models.SecurityAlertStatusAcknowledged
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to acknowledge security alert: %w", err)
	}
	return a, nil
}
