package controllers

import (
	"net/http"

	"github.com/abhinavyadav-ai/asset-manager/api/responses"
	"github.com/abhinavyadav-ai/asset-manager/api/validators"
	"github.com/abhinavyadav-ai/asset-manager/internal/payments"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
)

// RazorpayConfig tells the storefront whether card checkout is offered and
// which public key to load the widget with.
func RazorpayConfig(svc payments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Config())
	}
}

// VerifyRazorpayPayment checks the checkout widget's signature and, when the
// order id is supplied, marks that order paid.
func VerifyRazorpayPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload payments.VerifyInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.VerifyRazorpay(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
