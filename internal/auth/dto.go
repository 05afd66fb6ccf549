package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
)

// LoginRequest captures the credentials sent to the admin login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminDTO is the public view of a back-office account.
type AdminDTO struct {
	ID          uuid.UUID       `json:"id"`
	Username    string          `json:"username"`
	Role        enums.AdminRole `json:"role"`
	LastLoginAt *time.Time      `json:"lastLoginAt,omitempty"`
}

// LoginResponse carries the bearer token minted by a successful login.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Admin       AdminDTO  `json:"admin"`
}

func toAdminDTO(m *models.AdminUser) AdminDTO {
	return AdminDTO{
		ID:          m.ID,
		Username:    m.Username,
		Role:        m.Role,
		LastLoginAt: m.LastLoginAt,
	}
}
