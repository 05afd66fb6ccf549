package notifications

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db/dbtest"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox/idempotency"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox/payloads"
	"github.com/abhinavyadav-ai/asset-manager/pkg/redis"
)

func testFormatter() *Formatter {
	return NewFormatter("Luxe Candle", "+91 92795 47350", "https://luxe.example/")
}

func sampleOrder() OrderSummary {
	email := "asha@example.com"
	code := "SAVE10"
	return OrderSummary{
		OrderNumber:  "LUM-ABC123-XY12",
		CustomerName: "Asha",
		Phone:        "+91 98765-43210",
		Email:        &email,
		Items: []payloads.OrderLine{
			{Name: "Vanilla Bean", Quantity: 2, Price: decimal.RequireFromString("24.99")},
			{Name: "Rose Garden", Quantity: 1, Price: decimal.NewFromInt(30)},
		},
		Subtotal:       decimal.RequireFromString("79.98"),
		DiscountCode:   &code,
		DiscountAmount: decimal.RequireFromString("8.00"),
		Shipping:       decimal.Zero,
		Total:          decimal.RequireFromString("71.98"),
		PaymentMethod:  enums.PaymentMethodUPI,
		PaymentStatus:  enums.PaymentStatusPendingVerification,
		Address:        "12 Lodhi Road",
		City:           "New Delhi",
		State:          "Delhi",
		Pincode:        "110003",
		CreatedAt:      time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC),
	}
}

func TestAdminOrderMessage(t *testing.T) {
	msg := testFormatter().AdminOrderMessage(sampleOrder())

	for _, want := range []string{
		"*NEW ORDER RECEIVED!*",
		"*Order:* LUM-ABC123-XY12",
		"*Email:* asha@example.com",
		"2x Vanilla Bean (₹50)",
		"*Discount:* -₹8.00 (SAVE10)",
		"*Shipping:* FREE",
		"*TOTAL: ₹71.98*",
		"*Payment:* UPI",
		"New Delhi, Delhi - 110003",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("admin message missing %q:\n%s", want, msg)
		}
	}
}

func TestCustomerInvoiceMessageAndLinks(t *testing.T) {
	f := testFormatter()
	order := sampleOrder()

	msg := f.CustomerInvoiceMessage(order)
	for _, want := range []string{
		"*LUXE CANDLE - ORDER INVOICE*",
		"*Date:* 7/3/2026",
		"• Vanilla Bean x2 - ₹50",
		"*View Invoice:* https://luxe.example/invoice/LUM-ABC123-XY12",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("invoice message missing %q:\n%s", want, msg)
		}
	}

	link := f.CustomerInvoiceLink(order)
	if !strings.HasPrefix(link, "https://wa.me/919876543210?text=") {
		t.Fatalf("unexpected customer link %s", link)
	}
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if parsed.Query().Get("text") != msg {
		t.Fatal("link text does not round-trip to the invoice message")
	}

	if !strings.HasPrefix(f.AdminLink(order), "https://wa.me/919279547350?text=") {
		t.Fatalf("unexpected admin link %s", f.AdminLink(order))
	}
}

func newTestConsumer(t *testing.T) (*Consumer, Repository) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: srv.Addr()}))
	t.Cleanup(func() { _ = client.Close() })

	manager, err := idempotency.NewManager(client, time.Hour)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	repo := NewRepository(dbtest.Open(t))
	consumer, err := NewConsumer(repo, nil, manager, testFormatter(), logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}
	return consumer, repo
}

func envelopeFor(t *testing.T, eventID uuid.UUID, payload any) []byte {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	body, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID.String(),
		OccurredAt: time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC),
		Data:       data,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return body
}

func TestConsumerCreatesNewOrderNotificationOnce(t *testing.T) {
	consumer, repo := newTestConsumer(t)
	ctx := context.Background()

	order := sampleOrder()
	event := payloads.OrderCreatedEvent{
		OrderID:       1,
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.CustomerName,
		Phone:         order.Phone,
		Items:         order.Items,
		Subtotal:      order.Subtotal,
		Total:         order.Total,
		PaymentMethod: enums.PaymentMethodUPI,
		PaymentStatus: enums.PaymentStatusPendingVerification,
	}
	body := envelopeFor(t, uuid.New(), event)

	if res := consumer.Handle(ctx, "m1", string(enums.EventOrderCreated), body); res.Nack {
		t.Fatal("expected ack on first delivery")
	}
	if res := consumer.Handle(ctx, "m2", string(enums.EventOrderCreated), body); res.Nack {
		t.Fatal("expected ack on redelivery")
	}

	rows, err := repo.List(ctx, 10, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(rows))
	}
	if rows[0].Type != enums.NotificationTypeNewOrder || rows[0].OrderNumber != order.OrderNumber {
		t.Fatalf("unexpected notification %+v", rows[0])
	}
	if rows[0].Link == nil || !strings.HasPrefix(*rows[0].Link, "https://wa.me/919279547350") {
		t.Fatalf("expected admin whatsapp link, got %v", rows[0].Link)
	}
}

func TestConsumerAcksUnknownAndMalformedMessages(t *testing.T) {
	consumer, repo := newTestConsumer(t)
	ctx := context.Background()

	if res := consumer.Handle(ctx, "m1", "review_submitted", []byte(`{}`)); res.Nack {
		t.Fatal("unknown event types should be acked")
	}
	if res := consumer.Handle(ctx, "m2", string(enums.EventOrderPaid), []byte(`not json`)); res.Nack {
		t.Fatal("malformed envelopes should be acked")
	}

	rows, err := repo.List(ctx, 10, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no notifications, got %d", len(rows))
	}
}

func TestServiceListAndMarkRead(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	now := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	svc, err := NewService(repo, func() time.Time { return now })
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	var first models.Notification
	for i, number := range []string{"LUM-1", "LUM-2", "LUM-3"} {
		n := models.Notification{
			EventID:     uuid.New(),
			Type:        enums.NotificationTypeNewOrder,
			OrderNumber: number,
			Title:       "New order " + number,
			Message:     "placed",
			CreatedAt:   now.Add(time.Duration(i) * time.Minute),
		}
		if _, err := repo.Create(ctx, &n); err != nil {
			t.Fatalf("create: %v", err)
		}
		if i == 0 {
			first = n
		}
	}

	if err := svc.MarkRead(ctx, first.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := svc.MarkRead(ctx, first.ID); err != nil {
		t.Fatalf("mark read twice: %v", err)
	}
	if err := svc.MarkRead(ctx, uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	unread, err := svc.List(ctx, ListParams{UnreadOnly: true})
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread.Items) != 2 || unread.UnreadCount != 2 {
		t.Fatalf("expected 2 unread, got %d items count=%d", len(unread.Items), unread.UnreadCount)
	}
	if unread.Items[0].OrderNumber != "LUM-3" {
		t.Fatalf("expected newest first, got %s", unread.Items[0].OrderNumber)
	}

	count, err := svc.MarkAllRead(ctx)
	if err != nil {
		t.Fatalf("mark all: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows marked, got %d", count)
	}

	deleted, err := repo.DeleteReadBefore(ctx, now.Add(90*time.Second))
	if err != nil {
		t.Fatalf("delete read: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 old read rows removed, got %d", deleted)
	}
}
