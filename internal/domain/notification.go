package domain

import "time"

type NotificationChannel string

const (
	NotificationChannelEmail    NotificationChannel = "email"
	NotificationChannelWhatsApp NotificationChannel = "whatsapp"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// Notification is one outbox row. Rows are written in the same transaction
// as the booking change they announce and delivered asynchronously by the
// outbox job; delivery failure never propagates back into a booking flow.
type Notification struct {
	ID        int32               `json:"id"`
	Key       string              `json:"key"` // uuid, dedupe key for redelivery
	Recipient string              `json:"recipient"`
	Channel   NotificationChannel `json:"channel"`
	Subject   string              `json:"subject"`
	Body      string              `json:"body"`
	Status    NotificationStatus  `json:"status"`
	Attempts  int32               `json:"attempts"`
	CreatedOn time.Time           `json:"created_on"`
	SentOn    *time.Time          `json:"sent_on,omitempty"`
}
