package controllers

import (
	"net/http"

	"github.com/abhinavyadav-ai/asset-manager/api/middleware"
	"github.com/abhinavyadav-ai/asset-manager/api/responses"
	"github.com/abhinavyadav-ai/asset-manager/api/validators"
	"github.com/abhinavyadav-ai/asset-manager/internal/auth"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
)

// AdminLogin exchanges a username and password for a bearer token.
func AdminLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resp, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AdminLogout revokes the session behind the caller's token.
func AdminLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session"))
			return
		}
		if err := svc.Logout(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// AdminSession echoes the caller identity so the admin panel can check its
// token on load.
func AdminSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"adminId": middleware.AdminIDFromContext(r.Context()),
			"role":    middleware.RoleFromContext(r.Context()),
		})
	}
}
