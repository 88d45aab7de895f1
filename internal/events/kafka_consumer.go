package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/events"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/kafka"
)

// BookingApprover approves bookings once their payment is verified.
// *application.BookingService implements it.
type BookingApprover interface {
	ApproveVerifiedPayment(ctx context.Context, id int64) (bool, error)
}

// PaymentEventConsumer listens to payment events and approves bookings
// whose payment proof was verified.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	bookings BookingApprover
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	bookings BookingApprover,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		bookings: bookings,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case events.PaymentProofVerified:
		return c.handleProofVerified(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handleProofVerified(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.PaymentProofVerifiedEvent
	if err := cloudEvent.ParseData(&evt); err != nil || evt.BookingID == 0 {
		c.logger.Error("failed to parse PaymentProofVerifiedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment proof verified event",
		zap.Int64("booking_id", evt.BookingID),
		zap.String("payment_id", evt.PaymentID),
	)

	approved, err := c.bookings.ApproveVerifiedPayment(ctx, evt.BookingID)
	if err != nil {
		if domain.IsNotFound(err) {
			c.logger.Warn("verified payment refers to unknown booking",
				zap.Int64("booking_id", evt.BookingID),
			)
			return nil
		}
		c.logger.Error("failed to approve booking after payment verification",
			zap.Int64("booking_id", evt.BookingID),
			zap.Error(err),
		)
		return err
	}

	if !approved {
		c.logger.Info("booking left unchanged, it is no longer waiting for approval",
			zap.Int64("booking_id", evt.BookingID),
		)
		return nil
	}
	c.logger.Info("booking approved after payment verification", zap.Int64("booking_id", evt.BookingID))
	return nil
}
