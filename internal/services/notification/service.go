// Package notification fans new fraud alerts out to delivery channels.
// Dispatch is best-effort with no delivery guarantee; failures are
// logged and never block alert creation.
package notification

import (
	"context"
	"fmt"
	"log"

	"vigil/internal/models"
)

// Delivery channels.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

// Sender delivers one message on one channel.
type Sender interface {
	Send(ctx context.Context, channel, subject, body string) error
}

// LogSender writes deliveries to the application log. It stands in for
// real email/SMS/push gateways.
type LogSender struct{}

func (LogSender) Send(_ context.Context, channel, subject, body string) error {
	log.Printf("notify [%s] %s: %s", channel, subject, body)
	return nil
}

type Service struct {
	sender   Sender
	channels []string
}

// NewService creates a dispatcher over the given channels.
func NewService(sender Sender, channels ...string) *Service {
	if len(channels) == 0 {
		channels = []string{ChannelEmail, ChannelSMS, ChannelPush}
	}
	return &Service{sender: sender, channels: channels}
}

// AlertCreated dispatches a newly created fraud alert to every channel.
func (s *Service) AlertCreated(ctx context.Context, a *models.FraudAlert) {
	subject := fmt.Sprintf("Fraud alert %s (%s)", a.Reference, a.Severity)
	body := fmt.Sprintf("transaction %d flagged by %s for account %s",
		a.TransactionID, a.DetectionMethod, a.AccountID)

	for _, ch := range s.channels {
		if err := s.sender.Send(ctx, ch, subject, body); err != nil {
			log.Printf("failed to send %s notification for alert %s: %v", ch, a.Reference, err)
		}
	}
}
