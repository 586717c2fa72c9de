package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/logger"
)

type emailDispatcher struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailDispatcher(apiKey, fromEmail, fromName string) Dispatcher {
	return &emailDispatcher{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

func (d *emailDispatcher) Channel() domain.NotificationChannel {
	return domain.NotificationChannelEmail
}

func (d *emailDispatcher) Send(ctx context.Context, n *domain.Notification) error {
	from := mail.NewEmail(d.fromName, d.fromEmail)
	to := mail.NewEmail("", n.Recipient)
	message := mail.NewSingleEmail(from, n.Subject, to, n.Body, "")

	client := sendgrid.NewSendClient(d.apiKey)
	logger.ExternalServiceCall("sendgrid", "send", "recipient", n.Recipient)

	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		if ctx.Err() != nil {
			return &domain.UpstreamError{System: "sendgrid", Timeout: true, Err: err}
		}
		return &domain.UpstreamError{System: "sendgrid", Err: err}
	}
	if response.StatusCode >= 400 {
		return &domain.UpstreamError{System: "sendgrid",
			Err: fmt.Errorf("status %d: %s", response.StatusCode, response.Body)}
	}

	logger.ExternalServiceResult("sendgrid", "send", nil)
	return nil
}
