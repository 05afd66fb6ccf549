package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox/idempotency"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox/payloads"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox/registry"
)

const orderNotificationConsumer = "order-notifications"

type writer interface {
	Create(ctx context.Context, notification *models.Notification) (bool, error)
}

// Consumer turns order events from the orders subscription into admin inbox
// entries.
type Consumer struct {
	repo         writer
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	decoders     *registry.DecoderRegistry
	format       *Formatter
	logg         *logger.Logger
}

// NewConsumer builds an order notification consumer. subscription may be nil
// when the consumer is only driven through Handle.
func NewConsumer(repo writer, subscription *pubsub.Subscriber, manager *idempotency.Manager, format *Formatter, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if format == nil {
		return nil, fmt.Errorf("formatter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		decoders:     registry.NewOrderDecoders(),
		format:       format,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	if c.subscription == nil {
		return fmt.Errorf("orders subscription required")
	}
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.Handle(ctx, msg.ID, msg.Attributes["event_type"], msg.Data)
		if result.Nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// Result tells the receive loop whether to ack or nack a message.
type Result struct {
	Nack bool
}

var ack = Result{}

// Handle processes a single message body. Malformed messages are acked and
// dropped. Handler failures are nacked.
func (c *Consumer) Handle(ctx context.Context, messageID, rawType string, data []byte) Result {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": messageID,
		"event_type": rawType,
	})

	eventType, err := enums.ParseOutboxEventType(rawType)
	if err != nil {
		c.logg.Info(logCtx, "skipping unknown event")
		return ack
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return ack
	}
	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return ack
	}
	version := envelope.Version
	if version == 0 {
		version = 1
	}
	payload, err := c.decoders.Decode(eventType, version, envelope.Data)
	if err != nil {
		c.logg.Error(logCtx, "failed to parse payload", err)
		return ack
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, orderNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return Result{Nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return ack
	}

	notification, err := c.build(envelope, eventID, payload)
	if err != nil {
		c.logg.Error(logCtx, "unsupported payload", err)
		return ack
	}
	logCtx = c.logg.WithOrderNumber(logCtx, notification.OrderNumber)

	inserted, err := c.repo.Create(ctx, notification)
	if err != nil {
		c.logg.Error(logCtx, "notification insert failed", err)
		_ = c.idempotency.Delete(ctx, orderNotificationConsumer, eventID)
		return Result{Nack: true}
	}
	if inserted {
		c.logg.Info(logCtx, "admin notified")
	}
	return ack
}

func (c *Consumer) build(envelope outbox.PayloadEnvelope, eventID uuid.UUID, payload any) (*models.Notification, error) {
	switch p := payload.(type) {
	case *payloads.OrderCreatedEvent:
		summary := SummaryFromEvent(*p, envelope.OccurredAt)
		return &models.Notification{
			EventID:     eventID,
			Type:        enums.NotificationTypeNewOrder,
			OrderNumber: p.OrderNumber,
			Title:       fmt.Sprintf("New order %s", p.OrderNumber),
			Message:     fmt.Sprintf("%s placed an order for ₹%s via %s.", p.CustomerName, p.Total.StringFixed(2), p.PaymentMethod.DisplayName()),
			Link:        stringPtr(c.format.AdminLink(summary)),
		}, nil
	case *payloads.OrderStatusChangedEvent:
		message := fmt.Sprintf("Order %s moved from %s to %s.", p.OrderNumber, p.From, p.To)
		if p.TrackingNumber != nil && p.DeliveryPartner != nil {
			message = fmt.Sprintf("%s Tracking: %s (%s).", message, *p.TrackingNumber, *p.DeliveryPartner)
		}
		return &models.Notification{
			EventID:     eventID,
			Type:        enums.NotificationTypeOrderUpdate,
			OrderNumber: p.OrderNumber,
			Title:       fmt.Sprintf("Order %s is %s", p.OrderNumber, p.To),
			Message:     message,
			Link:        stringPtr(WhatsAppLink(p.Phone, customerStatusMessage(*p))),
		}, nil
	case *payloads.OrderPaidEvent:
		message := fmt.Sprintf("Payment of ₹%s received via %s.", p.Total.StringFixed(2), p.PaymentMethod.DisplayName())
		if p.PaymentID != nil {
			message = fmt.Sprintf("%s Payment id %s.", message, *p.PaymentID)
		}
		return &models.Notification{
			EventID:     eventID,
			Type:        enums.NotificationTypePaymentUpdate,
			OrderNumber: p.OrderNumber,
			Title:       fmt.Sprintf("Order %s paid", p.OrderNumber),
			Message:     message,
		}, nil
	default:
		return nil, fmt.Errorf("unexpected payload %T", payload)
	}
}

func customerStatusMessage(p payloads.OrderStatusChangedEvent) string {
	message := fmt.Sprintf("Hi %s, your order %s is now %s.", p.CustomerName, p.OrderNumber, p.To)
	if p.TrackingNumber != nil && p.DeliveryPartner != nil {
		message = fmt.Sprintf("%s Tracking number: %s via %s.", message, *p.TrackingNumber, *p.DeliveryPartner)
	}
	return message
}

func stringPtr(value string) *string {
	return &value
}
