package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhinavyadav-ai/asset-manager/api/controllers"
	"github.com/abhinavyadav-ai/asset-manager/api/middleware"
	"github.com/abhinavyadav-ai/asset-manager/internal/auth"
	"github.com/abhinavyadav-ai/asset-manager/internal/bulkdiscounts"
	"github.com/abhinavyadav-ai/asset-manager/internal/cart"
	"github.com/abhinavyadav-ai/asset-manager/internal/checkout"
	"github.com/abhinavyadav-ai/asset-manager/internal/coupons"
	"github.com/abhinavyadav-ai/asset-manager/internal/flashsales"
	"github.com/abhinavyadav-ai/asset-manager/internal/notifications"
	"github.com/abhinavyadav-ai/asset-manager/internal/orders"
	"github.com/abhinavyadav-ai/asset-manager/internal/payments"
	"github.com/abhinavyadav-ai/asset-manager/internal/products"
	"github.com/abhinavyadav-ai/asset-manager/internal/reviews"
	"github.com/abhinavyadav-ai/asset-manager/internal/settings"
	"github.com/abhinavyadav-ai/asset-manager/pkg/auth/session"
	"github.com/abhinavyadav-ai/asset-manager/pkg/config"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	pkgredis "github.com/abhinavyadav-ai/asset-manager/pkg/redis"
)

const (
	orderReplayTTL = 7 * 24 * time.Hour
	adminReplayTTL = 24 * time.Hour
)

// RequestStore backs idempotency replay and rate limiting. *redis.Client
// satisfies it.
type RequestStore interface {
	pkgredis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Services are the domain services exposed over HTTP.
type Services struct {
	Auth          auth.Service
	Products      products.Service
	Coupons       coupons.Service
	BulkDiscounts bulkdiscounts.Service
	Cart          cart.Service
	Checkout      checkout.Service
	Orders        orders.Service
	Payments      payments.Service
	Reviews       reviews.Service
	FlashSales    flashsales.Service
	Settings      settings.Service
	Notifications notifications.Service
	DeadLetters   controllers.DeadLetterReader
}

// Infra holds the shared clients the router needs beyond the services.
type Infra struct {
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Store    RequestStore
	Sessions session.AccessSessionChecker
	Metrics  prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewLoginRateLimitPolicy(
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	orderPolicy := middleware.NewIPRateLimitPolicy("orders", cfg.OrderLimit.Window, cfg.OrderLimit.IPLimit)
	orderReplay := middleware.Idempotency(infra.Store, logg, middleware.IdempotencyOptions{TTL: orderReplayTTL})
	adminReplay := middleware.Idempotency(infra.Store, logg, middleware.IdempotencyOptions{TTL: adminReplayTTL})
	markPaidReplay := middleware.Idempotency(infra.Store, logg, middleware.IdempotencyOptions{TTL: adminReplayTTL, Required: true})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(infra)))
	})
	if infra.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(infra.Metrics, promhttp.HandlerOpts{}))
	}

	r.Get("/invoice/{orderNumber}", controllers.OrderInvoicePage(svc.Orders, logg))

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svc.Products, logg))
			r.Get("/{id}", controllers.GetProduct(svc.Products, logg))
			r.Get("/{id}/reviews", controllers.ListProductReviews(svc.Reviews, logg))
		})
		r.Post("/reviews", controllers.SubmitReview(svc.Reviews, logg))
		r.Get("/coupons/validate/{code}", controllers.ValidateCoupon(svc.Coupons, logg))
		r.Get("/bulk-discounts/active", controllers.ListActiveBulkDiscounts(svc.BulkDiscounts, logg))
		r.Post("/cart/quote", controllers.QuoteCart(svc.Cart, logg))

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.RateLimit(orderPolicy, infra.Store, logg), orderReplay).
				Post("/", controllers.CreateOrder(svc.Checkout, svc.Settings, svc.Payments, logg))
			r.Get("/{orderNumber}", controllers.GetOrderByNumber(svc.Orders, logg))
		})

		r.Route("/payments/razorpay", func(r chi.Router) {
			r.Get("/config", controllers.RazorpayConfig(svc.Payments))
			r.With(orderReplay).Post("/verify", controllers.VerifyRazorpayPayment(svc.Payments, logg))
		})

		r.Get("/settings/{key}", controllers.GetSetting(svc.Settings, logg))
		r.Get("/storefront", controllers.GetStorefront(svc.Settings, logg))
		r.Get("/flash-sales/active", controllers.ActiveFlashSale(svc.FlashSales, logg))

		r.Route("/admin", func(r chi.Router) {
			r.With(middleware.RateLimit(loginPolicy, infra.Store, logg)).
				Post("/auth/login", controllers.AdminLogin(svc.Auth, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, infra.Sessions, logg))
				r.Use(middleware.RequireRole(logg, string(enums.AdminRoleOwner), string(enums.AdminRoleAdmin)))
				adminRoutes(r, logg, adminReplay, markPaidReplay, svc)
			})
		})
	})

	return r
}

func adminRoutes(r chi.Router, logg *logger.Logger, replay, markPaidReplay func(http.Handler) http.Handler, svc Services) {
	r.Post("/auth/logout", controllers.AdminLogout(svc.Auth, logg))
	r.Get("/auth/session", controllers.AdminSession())

	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.AdminListProducts(svc.Products, logg))
		r.With(replay).Post("/", controllers.AdminCreateProduct(svc.Products, logg))
		r.Put("/{id}", controllers.AdminUpdateProduct(svc.Products, logg))
		r.Delete("/{id}", controllers.AdminDeleteProduct(svc.Products, logg))
	})
	r.Route("/coupons", func(r chi.Router) {
		r.Get("/", controllers.AdminListCoupons(svc.Coupons, logg))
		r.With(replay).Post("/", controllers.AdminCreateCoupon(svc.Coupons, logg))
		r.Put("/{id}", controllers.AdminUpdateCoupon(svc.Coupons, logg))
		r.Delete("/{id}", controllers.AdminDeleteCoupon(svc.Coupons, logg))
	})
	r.Route("/bulk-discounts", func(r chi.Router) {
		r.Get("/", controllers.AdminListBulkDiscounts(svc.BulkDiscounts, logg))
		r.Post("/", controllers.AdminCreateBulkDiscount(svc.BulkDiscounts, logg))
		r.Put("/{id}", controllers.AdminUpdateBulkDiscount(svc.BulkDiscounts, logg))
		r.Delete("/{id}", controllers.AdminDeleteBulkDiscount(svc.BulkDiscounts, logg))
	})
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", controllers.AdminListOrders(svc.Orders, logg))
		r.Get("/{id}", controllers.AdminGetOrder(svc.Orders, logg))
		r.Delete("/{id}", controllers.AdminDeleteOrder(svc.Orders, logg))
		r.Patch("/{id}/status", controllers.AdminUpdateOrderStatus(svc.Orders, logg))
		r.Patch("/{id}/tracking", controllers.AdminUpdateOrderTracking(svc.Orders, logg))
		r.With(markPaidReplay).Post("/{id}/mark-paid", controllers.AdminMarkOrderPaid(svc.Orders, logg))
		r.Get("/{id}/whatsapp-link", controllers.AdminOrderWhatsAppLink(svc.Orders, logg))
		r.Get("/{id}/invoice-links", controllers.AdminOrderInvoiceLinks(svc.Orders, logg))
	})
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", controllers.AdminListReviews(svc.Reviews, logg))
		r.Post("/{id}/approve", controllers.AdminApproveReview(svc.Reviews, logg))
		r.Delete("/{id}", controllers.AdminDeleteReview(svc.Reviews, logg))
	})
	r.Route("/flash-sales", func(r chi.Router) {
		r.Get("/", controllers.AdminListFlashSales(svc.FlashSales, logg))
		r.Post("/", controllers.AdminCreateFlashSale(svc.FlashSales, logg))
		r.Put("/{id}", controllers.AdminUpdateFlashSale(svc.FlashSales, logg))
		r.Delete("/{id}", controllers.AdminDeleteFlashSale(svc.FlashSales, logg))
	})
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", controllers.AdminListSettings(svc.Settings, logg))
		r.Post("/", controllers.AdminUpsertSetting(svc.Settings, logg))
		r.Put("/", controllers.AdminUpsertSetting(svc.Settings, logg))
	})
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", controllers.ListNotifications(svc.Notifications, logg))
		r.Post("/{id}/read", controllers.MarkNotificationRead(svc.Notifications, logg))
		r.Post("/read-all", controllers.MarkAllNotificationsRead(svc.Notifications, logg))
	})
	if svc.DeadLetters != nil {
		r.Route("/outbox/dead-letters", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, string(enums.AdminRoleOwner)))
			r.Get("/", controllers.AdminListDeadLetters(svc.DeadLetters, logg))
			r.Get("/{eventId}", controllers.AdminGetDeadLetter(svc.DeadLetters, logg))
		})
	}
}

func readinessDeps(infra Infra) map[string]controllers.Pinger {
	deps := map[string]controllers.Pinger{}
	if infra.DB != nil {
		deps["database"] = infra.DB
	}
	if infra.Redis != nil {
		deps["redis"] = infra.Redis
	}
	return deps
}
