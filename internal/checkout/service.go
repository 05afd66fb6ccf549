package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/abhinavyadav-ai/asset-manager/internal/checkout/helpers"
	"github.com/abhinavyadav-ai/asset-manager/internal/coupons"
	"github.com/abhinavyadav-ai/asset-manager/internal/orders"
	"github.com/abhinavyadav-ai/asset-manager/internal/products"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	"github.com/abhinavyadav-ai/asset-manager/pkg/metrics"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox/payloads"
	"github.com/abhinavyadav-ai/asset-manager/pkg/pricing"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type bulkRuleSource interface {
	ActiveRules(ctx context.Context) ([]pricing.BulkDiscountRule, error)
}

type shippingRateSource interface {
	ShippingRates(ctx context.Context) (pricing.ShippingRates, error)
}

// Service finalizes storefront orders.
type Service interface {
	FinalizeOrder(ctx context.Context, input FinalizeInput) (*models.Order, error)
}

// FinalizeInput is the checkout form. Client-side prices and totals are not
// accepted; everything is recomputed from the catalog.
type FinalizeInput struct {
	CustomerName  string
	Email         *string
	Phone         string
	Address       string
	City          string
	State         string
	Pincode       string
	Items         []ItemInput
	PaymentMethod string
	CouponCode    string
}

type ItemInput struct {
	ProductID int64
	Name      string
	Quantity  int
}

// Deps groups the collaborators of the finalizer.
type Deps struct {
	Tx          txRunner
	Products    *products.Repository
	Coupons     *coupons.Repository
	Orders      orders.Repository
	Bulk        bulkRuleSource
	Rates       shippingRateSource
	Outbox      outbox.Emitter
	Metrics     *metrics.CheckoutMetrics
	Logger      *logger.Logger
	OrderNumber OrderNumberFunc
	Now         func() time.Time
}

type service struct {
	tx          txRunner
	products    *products.Repository
	coupons     *coupons.Repository
	orders      orders.Repository
	bulk        bulkRuleSource
	rates       shippingRateSource
	outbox      outbox.Emitter
	metrics     *metrics.CheckoutMetrics
	logg        *logger.Logger
	orderNumber OrderNumberFunc
	now         func() time.Time
}

// NewService builds the checkout service. Metrics and Logger are optional.
func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Tx == nil:
		return nil, fmt.Errorf("tx runner required")
	case deps.Products == nil:
		return nil, fmt.Errorf("products repository required")
	case deps.Coupons == nil:
		return nil, fmt.Errorf("coupons repository required")
	case deps.Orders == nil:
		return nil, fmt.Errorf("orders repository required")
	case deps.Bulk == nil:
		return nil, fmt.Errorf("bulk discount source required")
	case deps.Rates == nil:
		return nil, fmt.Errorf("shipping rate source required")
	case deps.Outbox == nil:
		return nil, fmt.Errorf("outbox publisher required")
	}
	if deps.OrderNumber == nil {
		deps.OrderNumber = NewOrderNumberFunc(defaultOrderPrefix)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{
		tx:          deps.Tx,
		products:    deps.Products,
		coupons:     deps.Coupons,
		orders:      deps.Orders,
		bulk:        deps.Bulk,
		rates:       deps.Rates,
		outbox:      deps.Outbox,
		metrics:     deps.Metrics,
		logg:        deps.Logger,
		orderNumber: deps.OrderNumber,
		now:         deps.Now,
	}, nil
}

// Rejection is a checkout refused for a business reason. Reason is the
// metrics label; the wrapped error carries the shopper-facing message.
type Rejection struct {
	Reason string
	Err    *pkgerrors.Error
}

func (r *Rejection) Error() string { return r.Err.Error() }

func (r *Rejection) Unwrap() error { return r.Err }

func reject(reason string, err *pkgerrors.Error) *Rejection {
	return &Rejection{Reason: reason, Err: err}
}

const (
	reasonInvalidInput      = "invalid_input"
	reasonEmptyCart         = "empty_cart"
	reasonProductNotFound   = "product_not_found"
	reasonInsufficientStock = "insufficient_stock"
	reasonCouponUsage       = "coupon_usage_limit_reached"
	reasonInternal          = "internal"
)

// FinalizeOrder re-prices the cart from the catalog, persists the order,
// consumes stock and coupon usage, and queues order_created. Every write
// happens in one transaction.
func (s *service) FinalizeOrder(ctx context.Context, input FinalizeInput) (*models.Order, error) {
	started := s.now()
	defer func() { s.metrics.ObserveDuration(time.Since(started)) }()

	order, err := s.finalize(ctx, input)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	s.metrics.ObserveFinalized(string(order.PaymentMethod))
	if order.DiscountCode != nil {
		s.metrics.ObserveCouponRedeemed(*order.DiscountCode)
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(s.logg.WithOrderNumber(ctx, order.OrderNumber), map[string]any{
			"total":          order.Total.StringFixed(2),
			"payment_method": order.PaymentMethod,
			"items":          len(order.Items),
		})
		s.logg.Info(logCtx, "order finalized")
	}
	return order, nil
}

func (s *service) finalize(ctx context.Context, input FinalizeInput) (*models.Order, error) {
	lines := make([]helpers.LineRequest, 0, len(input.Items))
	for _, item := range input.Items {
		lines = append(lines, helpers.LineRequest{ProductID: item.ProductID, Name: item.Name, Quantity: item.Quantity})
	}
	if len(lines) == 0 {
		return nil, reject(reasonEmptyCart, pkgerrors.New(pkgerrors.CodeValidation, "Cart is empty"))
	}
	if err := helpers.ValidateLines(lines); err != nil {
		return nil, reject(reasonInvalidInput, pkgerrors.As(err))
	}
	lines = helpers.MergeLines(lines)

	customer := helpers.NormalizeCustomer(helpers.Customer{
		Name:    input.CustomerName,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
		City:    input.City,
		State:   input.State,
		Pincode: input.Pincode,
	})
	if err := helpers.ValidateCustomer(customer); err != nil {
		return nil, reject(reasonInvalidInput, pkgerrors.As(err))
	}
	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, reject(reasonInvalidInput, pkgerrors.New(pkgerrors.CodeValidation, "Invalid payment method"))
	}

	couponCode := pricing.NormalizeCode(input.CouponCode)
	rates, err := s.rates.ShippingRates(ctx)
	if err != nil {
		return nil, err
	}
	var bulkRules []pricing.BulkDiscountRule
	if couponCode == "" {
		if bulkRules, err = s.bulk.ActiveRules(ctx); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		productRepo := s.products.WithTx(tx)
		couponRepo := s.coupons.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		catalog, err := productRepo.FindByIDs(ctx, helpers.ProductIDs(lines))
		if err != nil {
			return err
		}
		priced := make([]pricing.LineItem, 0, len(lines))
		snapshot := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			product, ok := catalog[line.ProductID]
			if !ok || !product.IsActive {
				return reject(reasonProductNotFound, pkgerrors.Newf(pkgerrors.CodeValidation, "Product %s not found", requestedName(line)))
			}
			if product.Stock < line.Quantity {
				return insufficientStock(product.Name, product.Stock)
			}
			priced = append(priced, pricing.LineItem{
				ProductID: product.ID,
				Name:      product.Name,
				UnitPrice: product.Price,
				Quantity:  line.Quantity,
			})
			snapshot = append(snapshot, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  line.Quantity,
				Image:     firstImage(product),
			})
		}

		var couponRow *models.Coupon
		var rule *pricing.Coupon
		if couponCode != "" {
			couponRow, err = couponRepo.FindByCode(ctx, couponCode)
			switch {
			case err == nil:
				r := coupons.ToRule(*couponRow)
				rule = &r
			case db.IsNotFound(err):
				couponRow = nil
			default:
				return err
			}
		}

		quote, err := pricing.BuildQuote(pricing.QuoteInput{
			Items:         priced,
			City:          customer.City,
			CouponCode:    couponCode,
			Coupon:        rule,
			BulkDiscounts: bulkRules,
			Rates:         rates,
			Now:           now,
		})
		if err != nil {
			var rejection *pricing.CouponRejection
			if errors.As(err, &rejection) {
				return reject("coupon_"+string(rejection.Reason), pkgerrors.New(pkgerrors.CodeValidation, rejection.Message).
					WithDetails(map[string]any{"reason": string(rejection.Reason), "code": rejection.Code}))
			}
			return err
		}

		order := &models.Order{
			OrderNumber:    s.orderNumber(now),
			CustomerName:   customer.Name,
			Email:          customer.Email,
			Phone:          customer.Phone,
			Address:        customer.Address,
			City:           customer.City,
			State:          customer.State,
			Pincode:        customer.Pincode,
			Items:          snapshot,
			Subtotal:       quote.Subtotal,
			Shipping:       quote.Shipping,
			DiscountCode:   quote.DiscountCode(),
			DiscountAmount: quote.DiscountAmount,
			Total:          quote.Total,
			PaymentMethod:  method,
			PaymentStatus:  method.InitialPaymentStatus(),
			Status:         enums.OrderStatusPending,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, item := range snapshot {
			ok, err := productRepo.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				available := 0
				if current, err := productRepo.FindByID(ctx, item.ProductID); err == nil {
					available = current.Stock
				}
				return insufficientStock(item.Name, available)
			}
		}

		if quote.Coupon != nil && couponRow != nil {
			ok, err := couponRepo.IncrementUsage(ctx, couponRow.ID)
			if err != nil {
				return fmt.Errorf("increment coupon usage: %w", err)
			}
			if !ok {
				return reject(reasonCouponUsage, pkgerrors.New(pkgerrors.CodeValidation, "Coupon usage limit reached").
					WithDetails(map[string]any{"reason": string(pricing.ReasonUsageLimitReached), "code": couponRow.Code}))
			}
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   strconv.FormatInt(order.ID, 10),
			Actor:         &outbox.ActorRef{Source: "storefront"},
			Data:          orderCreatedPayload(order),
			OccurredAt:    now,
		}); err != nil {
			return fmt.Errorf("emit order_created: %w", err)
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// fail records the rejection reason and hides infrastructure errors behind a
// generic message.
func (s *service) fail(ctx context.Context, err error) error {
	var rejection *Rejection
	if errors.As(err, &rejection) {
		s.metrics.ObserveRejected(rejection.Reason)
		if s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"reason": rejection.Reason, "message": rejection.Err.Message()}), "checkout rejected")
		}
		return rejection
	}
	s.metrics.ObserveRejected(reasonInternal)
	if s.logg != nil {
		s.logg.Error(ctx, "order finalization failed", err)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to create order")
}

func insufficientStock(name string, available int) *Rejection {
	return reject(reasonInsufficientStock, pkgerrors.Newf(pkgerrors.CodeValidation, "Insufficient stock for %s. Available: %d", name, available).
		WithDetails(map[string]any{"available": available}))
}

func requestedName(line helpers.LineRequest) string {
	if name := strings.TrimSpace(line.Name); name != "" {
		return name
	}
	return "#" + strconv.FormatInt(line.ProductID, 10)
}

func firstImage(p models.Product) string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func orderCreatedPayload(o *models.Order) payloads.OrderCreatedEvent {
	lines := make([]payloads.OrderLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, payloads.OrderLine{Name: item.Name, Quantity: item.Quantity, Price: item.Price})
	}
	return payloads.OrderCreatedEvent{
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerName:   o.CustomerName,
		Email:          o.Email,
		Phone:          o.Phone,
		Address:        o.Address,
		City:           o.City,
		State:          o.State,
		Pincode:        o.Pincode,
		Items:          lines,
		Subtotal:       o.Subtotal,
		DiscountCode:   o.DiscountCode,
		DiscountAmount: o.DiscountAmount,
		Shipping:       o.Shipping,
		Total:          o.Total,
		PaymentMethod:  o.PaymentMethod,
		PaymentStatus:  o.PaymentStatus,
	}
}
