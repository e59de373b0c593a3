package service

import (
	"context"
	"time"

	"repairmate-backend/config"
	"repairmate-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Event names published to the booking stream
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
)

const publishTimeout = 5 * time.Second

// BookingEventService publishes lifecycle events to a Redis stream for the
// external notification collaborator. Publishing happens after the DB
// commit and is best-effort: a failed publish is logged, never surfaced to
// the caller.
type BookingEventService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	cfg         config.NotificationConfig
	now         func() time.Time
}

func NewBookingEventService(redisClient *redis.Client, log *logrus.Logger, cfg config.NotificationConfig) *BookingEventService {
	return &BookingEventService{
		redisClient: redisClient,
		log:         log,
		cfg:         cfg,
		now:         time.Now,
	}
}

// PublishCreated announces a freshly created booking
func (s *BookingEventService) PublishCreated(ctx context.Context, booking *entity.Booking) {
	s.publish(ctx, EventBookingCreated, booking.ID, "", booking.Status, booking.CustomerID)
}

// PublishStatusChanged announces a successful transition
func (s *BookingEventService) PublishStatusChanged(ctx context.Context, bookingID uuid.UUID, from, to entity.BookingStatus, actorID uuid.UUID) {
	s.publish(ctx, EventBookingStatusChanged, bookingID, from, to, actorID)
}

func (s *BookingEventService) publish(ctx context.Context, event string, bookingID uuid.UUID, from, to entity.BookingStatus, actorID uuid.UUID) {
	if !s.cfg.Enabled {
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	values := map[string]interface{}{
		"event":       event,
		"booking_id":  bookingID.String(),
		"status":      to.String(),
		"actor_id":    actorID.String(),
		"occurred_at": s.now().UTC().Format(time.RFC3339),
	}
	if from != "" {
		values["previous_status"] = from.String()
	}

	err := s.redisClient.XAdd(publishCtx, &redis.XAddArgs{
		Stream: s.cfg.EventStream,
		Values: values,
	}).Err()
	if err != nil {
		s.log.Warnf("Failed to publish %s for booking %s (non-fatal): %+v", event, bookingID, err)
	}
}
