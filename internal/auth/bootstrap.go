package auth

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/abhinavyadav-ai/asset-manager/pkg/config"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/security"
)

// BootstrapParams names the dependencies of the first-admin seed.
type BootstrapParams struct {
	DB             *db.Client
	Admin          config.AdminConfig
	PasswordConfig config.PasswordConfig
}

// BootstrapOwner creates the configured owner account when admin_users is
// empty. It reports whether an account was created; missing credentials in
// config are not an error.
func BootstrapOwner(ctx context.Context, params BootstrapParams) (bool, error) {
	if params.DB == nil {
		return false, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	username := strings.TrimSpace(params.Admin.BootstrapUsername)
	if username == "" || params.Admin.BootstrapPassword == "" {
		return false, nil
	}

	passwordHash, err := security.HashPassword(params.Admin.BootstrapPassword, params.PasswordConfig)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bootstrap password rejected")
	}

	created := false
	err = params.DB.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		count, err := repo.Count(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count admins")
		}
		if count > 0 {
			return nil
		}
		if err := repo.Create(ctx, &models.AdminUser{
			Username:     username,
			PasswordHash: passwordHash,
			Role:         enums.AdminRoleOwner,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin")
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}
