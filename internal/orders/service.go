package orders

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/abhinavyadav-ai/asset-manager/internal/notifications"
	"github.com/abhinavyadav-ai/asset-manager/internal/products"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox/payloads"
	"github.com/abhinavyadav-ai/asset-manager/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines admin order management plus the public lookup by number.
type Service interface {
	List(ctx context.Context, params ListParams) (*pagination.Page[OrderDTO], error)
	Get(ctx context.Context, id int64) (*OrderDTO, error)
	GetByNumber(ctx context.Context, orderNumber string) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderDTO, error)
	UpdateTracking(ctx context.Context, input UpdateTrackingInput) (*OrderDTO, error)
	MarkPaid(ctx context.Context, input MarkPaidInput) (*OrderDTO, error)
	Delete(ctx context.Context, id int64) error
	WhatsAppNotifyLink(ctx context.Context, id int64) (string, error)
	InvoiceLinks(ctx context.Context, id int64) (*InvoiceLinks, error)
	Invoice(ctx context.Context, orderNumber string) ([]byte, error)
	ExpireUnpaid(ctx context.Context, cutoff time.Time, limit int) (int, error)
}

type ListParams struct {
	pagination.Params
	Status        string
	PaymentStatus string
}

type UpdateStatusInput struct {
	OrderID int64
	Status  string
	Actor   *outbox.ActorRef
}

type UpdateTrackingInput struct {
	OrderID         int64
	TrackingNumber  string
	DeliveryPartner string
}

// MarkPaidInput records a confirmed payment. Gateway ids are set for
// Razorpay callbacks and left nil when an admin confirms a UPI transfer.
type MarkPaidInput struct {
	OrderID          int64
	GatewayOrderID   *string
	GatewayPaymentID *string
	Actor            *outbox.ActorRef
}

type service struct {
	repo     Repository
	products *products.Repository
	tx       txRunner
	outbox   outbox.Emitter
	format   *notifications.Formatter
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the order dependencies.
func NewService(repo Repository, productRepo *products.Repository, tx txRunner, emitter outbox.Emitter, format *notifications.Formatter, logg *logger.Logger) (Service, error) {
	switch {
	case repo == nil:
		return nil, fmt.Errorf("orders repository required")
	case productRepo == nil:
		return nil, fmt.Errorf("products repository required")
	case tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case emitter == nil:
		return nil, fmt.Errorf("outbox emitter required")
	case format == nil:
		return nil, fmt.Errorf("message formatter required")
	}
	return &service{
		repo:     repo,
		products: productRepo,
		tx:       tx,
		outbox:   emitter,
		format:   format,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Page[OrderDTO], error) {
	var filters ListFilters
	if params.Status != "" {
		status, err := enums.ParseOrderStatus(params.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid status")
		}
		filters.Status = &status
	}
	if params.PaymentStatus != "" {
		status, err := enums.ParsePaymentStatus(params.PaymentStatus)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid payment status")
		}
		filters.PaymentStatus = &status
	}
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, params.Params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	dtos := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, ToDTO(row))
	}
	page := pagination.Build(dtos, params.Limit, func(o OrderDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	return &page, nil
}

func (s *service) Get(ctx context.Context, id int64) (*OrderDTO, error) {
	order, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(*order)
	return &dto, nil
}

func (s *service) GetByNumber(ctx context.Context, orderNumber string) (*OrderDTO, error) {
	order, err := s.findByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(*order)
	return &dto, nil
}

// Invoice renders the printable invoice page for an order number.
func (s *service) Invoice(ctx context.Context, orderNumber string) ([]byte, error) {
	order, err := s.findByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.format.RenderInvoice(&buf, notifications.SummaryFromOrder(*order)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render invoice")
	}
	return buf.Bytes(), nil
}

func (s *service) findByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	order, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderDTO, error) {
	next, err := enums.ParseOrderStatus(strings.TrimSpace(input.Status))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid status")
	}

	var updated *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.load(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if order.Status == next {
			updated = order
			return nil
		}
		if !order.Status.CanTransitionTo(next) {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "Cannot change order status from %s to %s", order.Status, next).
				WithDetails(map[string]any{"from": order.Status, "to": next})
		}
		if next == enums.OrderStatusCancelled {
			if err := s.cancelTx(ctx, tx, order, input.Actor); err != nil {
				return err
			}
		} else if err := s.transitionTx(ctx, tx, order, next, input.Actor); err != nil {
			return err
		}
		updated, err = repo.FindByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, asServiceError(err, "update order status")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(s.logg.WithOrderNumber(ctx, updated.OrderNumber), map[string]any{"status": updated.Status}), "order status updated")
	}
	dto := ToDTO(*updated)
	return &dto, nil
}

func (s *service) UpdateTracking(ctx context.Context, input UpdateTrackingInput) (*OrderDTO, error) {
	tracking := strings.TrimSpace(input.TrackingNumber)
	partner := strings.TrimSpace(input.DeliveryPartner)
	if tracking == "" || partner == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Tracking number and delivery partner required")
	}
	ok, err := s.repo.UpdateTracking(ctx, input.OrderID, tracking, partner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update tracking")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
	}
	return s.Get(ctx, input.OrderID)
}

// MarkPaid sets the payment status to paid and emits order_paid. Marking an
// already paid order returns it unchanged.
func (s *service) MarkPaid(ctx context.Context, input MarkPaidInput) (*OrderDTO, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.load(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "Order is cancelled")
		}
		changed, err := repo.MarkPaid(ctx, order.ID, input.GatewayOrderID, input.GatewayPaymentID)
		if err != nil {
			return err
		}
		if changed {
			if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventOrderPaid,
				AggregateType: enums.AggregateOrder,
				AggregateID:   strconv.FormatInt(order.ID, 10),
				Actor:         input.Actor,
				Data: payloads.OrderPaidEvent{
					OrderID:       order.ID,
					OrderNumber:   order.OrderNumber,
					Total:         order.Total,
					PaymentMethod: order.PaymentMethod,
					PaymentID:     input.GatewayPaymentID,
				},
			}); err != nil {
				return err
			}
		}
		updated, err = repo.FindByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, asServiceError(err, "mark order paid")
	}
	dto := ToDTO(*updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to delete order")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
	}
	return nil
}

func (s *service) WhatsAppNotifyLink(ctx context.Context, id int64) (string, error) {
	order, err := s.load(ctx, s.repo, id)
	if err != nil {
		return "", err
	}
	return s.format.AdminLink(notifications.SummaryFromOrder(*order)), nil
}

func (s *service) InvoiceLinks(ctx context.Context, id int64) (*InvoiceLinks, error) {
	order, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	summary := notifications.SummaryFromOrder(*order)
	return &InvoiceLinks{
		InvoiceURL:          s.format.InvoiceURL(order.OrderNumber),
		CustomerWhatsAppURL: s.format.CustomerInvoiceLink(summary),
		CustomerPhone:       order.Phone,
		CustomerEmail:       order.Email,
	}, nil
}

// ExpireUnpaid cancels gateway orders whose payment never arrived. Each order
// is cancelled in its own transaction; failures are combined and the rest of
// the batch still runs.
func (s *service) ExpireUnpaid(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	rows, err := s.repo.FindUnpaidBefore(ctx, enums.PaymentMethodRazorpay, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("find unpaid orders: %w", err)
	}

	actor := &outbox.ActorRef{Source: "maintenance"}
	var errs error
	expired := 0
	for _, row := range rows {
		order := row
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return s.cancelTx(ctx, tx, &order, actor)
		})
		if err != nil {
			if errors.Is(err, errStatusMoved) {
				continue
			}
			errs = multierr.Append(errs, fmt.Errorf("expire order %s: %w", order.OrderNumber, err))
			continue
		}
		expired++
	}
	return expired, errs
}

var errStatusMoved = errors.New("order status changed concurrently")

// cancelTx cancels order and returns its stock. Coupon redemptions stay
// counted.
func (s *service) cancelTx(ctx context.Context, tx *gorm.DB, order *models.Order, actor *outbox.ActorRef) error {
	if err := s.transitionTx(ctx, tx, order, enums.OrderStatusCancelled, actor); err != nil {
		return err
	}
	productRepo := s.products.WithTx(tx)
	for _, item := range order.Items {
		if err := productRepo.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("restore stock for product %d: %w", item.ProductID, err)
		}
	}
	return nil
}

func (s *service) transitionTx(ctx context.Context, tx *gorm.DB, order *models.Order, next enums.OrderStatus, actor *outbox.ActorRef) error {
	ok, err := s.repo.WithTx(tx).UpdateStatus(ctx, order.ID, order.Status, next)
	if err != nil {
		return err
	}
	if !ok {
		return errStatusMoved
	}
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderStatusChanged,
		AggregateType: enums.AggregateOrder,
		AggregateID:   strconv.FormatInt(order.ID, 10),
		Actor:         actor,
		Data: payloads.OrderStatusChangedEvent{
			OrderID:         order.ID,
			OrderNumber:     order.OrderNumber,
			CustomerName:    order.CustomerName,
			Phone:           order.Phone,
			From:            order.Status,
			To:              next,
			TrackingNumber:  order.TrackingNumber,
			DeliveryPartner: order.DeliveryPartner,
		},
		OccurredAt: s.now().UTC(),
	})
}

func (s *service) load(ctx context.Context, repo Repository, id int64) (*models.Order, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func asServiceError(err error, message string) error {
	if errors.Is(err, errStatusMoved) {
		return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "Order status changed, reload and retry")
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
