package service

import (
	"context"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/logger"
	"github.com/DaniyalGhauri/DriveSmart/internal/repository"
)

type outboxService struct {
	notificationRepo repository.NotificationRepository
	dispatchers      map[domain.NotificationChannel]Dispatcher
	maxAttempts      int32
	batchSize        int32
}

func NewOutboxService(notificationRepo repository.NotificationRepository, maxAttempts, batchSize int, dispatchers ...Dispatcher) OutboxService {
	byChannel := make(map[domain.NotificationChannel]Dispatcher, len(dispatchers))
	for _, d := range dispatchers {
		byChannel[d.Channel()] = d
	}
	return &outboxService{
		notificationRepo: notificationRepo,
		dispatchers:      byChannel,
		maxAttempts:      int32(maxAttempts),
		batchSize:        int32(batchSize),
	}
}

// DispatchPending drains one batch of the outbox. Each row is attempted at
// most once per run; a row that keeps failing is parked as failed once its
// attempt budget is spent. Delivery errors never abort the batch.
func (s *outboxService) DispatchPending(ctx context.Context) (int, int, error) {
	pending, err := s.notificationRepo.ListPending(ctx, s.batchSize)
	if err != nil {
		return 0, 0, err
	}

	var sent, failed int
	for i := range pending {
		n := &pending[i]

		d, ok := s.dispatchers[n.Channel]
		if !ok {
			logger.Error("No dispatcher for notification channel", "channel", n.Channel, "notification_id", n.ID)
			if err := s.notificationRepo.MarkAttempt(ctx, n.ID, true); err != nil {
				return sent, failed, err
			}
			failed++
			continue
		}

		if err := d.Send(ctx, n); err != nil {
			logger.Warn("Notification delivery failed",
				"notification_id", n.ID, "channel", n.Channel, "attempt", n.Attempts+1, "error", err)
			exhausted := n.Attempts+1 >= s.maxAttempts
			if err := s.notificationRepo.MarkAttempt(ctx, n.ID, exhausted); err != nil {
				return sent, failed, err
			}
			failed++
			continue
		}

		if err := s.notificationRepo.MarkSent(ctx, n.ID); err != nil {
			return sent, failed, err
		}
		sent++
	}

	if sent > 0 || failed > 0 {
		logger.Info("Outbox dispatch round finished", "sent", sent, "failed", failed)
	}
	return sent, failed, nil
}
