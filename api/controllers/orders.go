package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/abhinavyadav-ai/asset-manager/api/middleware"
	"github.com/abhinavyadav-ai/asset-manager/api/responses"
	"github.com/abhinavyadav-ai/asset-manager/api/validators"
	"github.com/abhinavyadav-ai/asset-manager/internal/orders"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox"
	"github.com/abhinavyadav-ai/asset-manager/pkg/pagination"
)

// GetOrderByNumber backs the customer's order confirmation page.
func GetOrderByNumber(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number := validators.NormalizeCode(chi.URLParam(r, "orderNumber"), 64)
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number required"))
			return
		}
		order, err := svc.GetByNumber(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderInvoicePage serves the printable invoice linked from customer messages.
func OrderInvoicePage(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number := validators.NormalizeCode(chi.URLParam(r, "orderNumber"), 64)
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number required"))
			return
		}
		page, err := svc.Invoice(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	}
}

// AdminListOrders pages through orders newest first, optionally filtered by
// order or payment status.
func AdminListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query := r.URL.Query()
		page, err := svc.List(r.Context(), orders.ListParams{
			Params:        pagination.Params{Limit: limit, Cursor: strings.TrimSpace(query.Get("cursor"))},
			Status:        strings.TrimSpace(query.Get("status")),
			PaymentStatus: strings.TrimSpace(query.Get("paymentStatus")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func AdminGetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func AdminUpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orders.UpdateStatusInput{
			OrderID: id,
			Status:  payload.Status,
			Actor:   adminActor(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type updateTrackingRequest struct {
	TrackingNumber  string `json:"trackingNumber" validate:"required,max=100"`
	DeliveryPartner string `json:"deliveryPartner" validate:"required,max=100"`
}

func AdminUpdateOrderTracking(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateTrackingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateTracking(r.Context(), orders.UpdateTrackingInput{
			OrderID:         id,
			TrackingNumber:  payload.TrackingNumber,
			DeliveryPartner: payload.DeliveryPartner,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminMarkOrderPaid confirms a UPI transfer the shop owner has seen land.
func AdminMarkOrderPaid(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.MarkPaid(r.Context(), orders.MarkPaidInput{OrderID: id, Actor: adminActor(r)})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AdminDeleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// AdminOrderWhatsAppLink returns the wa.me link that messages the shop owner
// the order summary.
func AdminOrderWhatsAppLink(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		link, err := svc.WhatsAppNotifyLink(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"url": link})
	}
}

func AdminOrderInvoiceLinks(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		links, err := svc.InvoiceLinks(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, links)
	}
}

func adminActor(r *http.Request) *outbox.ActorRef {
	actor := &outbox.ActorRef{Role: middleware.RoleFromContext(r.Context()), Source: "admin"}
	if id, err := uuid.Parse(middleware.AdminIDFromContext(r.Context())); err == nil {
		actor.AdminID = &id
	}
	return actor
}
