package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/logger"
)

// whatsappDispatcher delivers over the CallMeBot-style webhook: a GET with
// phone, text and apikey query parameters.
type whatsappDispatcher struct {
	apiURL string
	apiKey string
	client *http.Client
}

func NewWhatsAppDispatcher(apiURL, apiKey string) Dispatcher {
	return &whatsappDispatcher{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (d *whatsappDispatcher) Channel() domain.NotificationChannel {
	return domain.NotificationChannelWhatsApp
}

func (d *whatsappDispatcher) Send(ctx context.Context, n *domain.Notification) error {
	params := url.Values{}
	params.Set("phone", n.Recipient)
	params.Set("text", n.Body)
	params.Set("apikey", d.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	logger.ExternalServiceCall("whatsapp", "send", "recipient", n.Recipient)
	resp, err := d.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return &domain.UpstreamError{System: "whatsapp", Timeout: true, Err: err}
		}
		return &domain.UpstreamError{System: "whatsapp", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &domain.UpstreamError{System: "whatsapp",
			Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	logger.ExternalServiceResult("whatsapp", "send", nil)
	return nil
}
