package settings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/pkg/config"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	"github.com/abhinavyadav-ai/asset-manager/pkg/pricing"
)

// Well-known keys.
const (
	KeyDeliveryChargeDelhi = "delivery_charge_delhi"
	KeyDeliveryChargeOther = "delivery_charge_other"
	KeyMerchantUPIID       = "merchant_upi_id"
	KeyLogoURL             = "logo_url"
)

const maxKeyLength = 100

// Service reads and writes shop-owner settings and derives typed config from
// them.
type Service interface {
	Get(ctx context.Context, key string) (*SettingDTO, error)
	List(ctx context.Context) ([]SettingDTO, error)
	Set(ctx context.Context, key, value string) (*SettingDTO, error)
	ShippingRates(ctx context.Context) (pricing.ShippingRates, error)
	Storefront(ctx context.Context) (Storefront, error)
}

type SettingDTO struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Storefront is the shop identity used in payment instructions and messages.
type Storefront struct {
	Name           string `json:"name"`
	MerchantUPIID  string `json:"merchantUpiId,omitempty"`
	LogoURL        string `json:"logoUrl,omitempty"`
	WhatsAppNumber string `json:"whatsappNumber"`
	PublicURL      string `json:"publicUrl"`
}

type service struct {
	repo     *Repository
	defaults pricing.ShippingRates
	store    config.StorefrontConfig
	logg     *logger.Logger
}

func NewService(repo *Repository, pricingCfg config.PricingConfig, storeCfg config.StorefrontConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{
		repo: repo,
		defaults: pricing.ShippingRates{
			Delhi: pricingCfg.DelhiRate(),
			Other: pricingCfg.OtherRate(),
		},
		store: storeCfg,
		logg:  logg,
	}, nil
}

func (s *service) Get(ctx context.Context, key string) (*SettingDTO, error) {
	row, err := s.repo.Get(ctx, strings.TrimSpace(key))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Setting not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load setting")
	}
	dto := toDTO(*row)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]SettingDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list settings")
	}
	out := make([]SettingDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

func (s *service) Set(ctx context.Context, key, value string) (*SettingDTO, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Key and value are required")
	}
	if len(key) > maxKeyLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "key is too long")
	}
	if key == KeyDeliveryChargeDelhi || key == KeyDeliveryChargeOther {
		if _, ok := parseCharge(value); !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery charge must be a non-negative number")
		}
	}

	row, err := s.repo.Upsert(ctx, key, value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save setting")
	}
	dto := toDTO(*row)
	return &dto, nil
}

// ShippingRates reads the delivery charges, falling back per key to the
// configured defaults when a value is missing or malformed.
func (s *service) ShippingRates(ctx context.Context) (pricing.ShippingRates, error) {
	values, err := s.repo.GetMany(ctx, KeyDeliveryChargeDelhi, KeyDeliveryChargeOther)
	if err != nil {
		return pricing.ShippingRates{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery charges")
	}
	rates := s.defaults
	if raw, ok := values[KeyDeliveryChargeDelhi]; ok {
		rates.Delhi = s.chargeOr(ctx, KeyDeliveryChargeDelhi, raw, s.defaults.Delhi)
	}
	if raw, ok := values[KeyDeliveryChargeOther]; ok {
		rates.Other = s.chargeOr(ctx, KeyDeliveryChargeOther, raw, s.defaults.Other)
	}
	return rates, nil
}

func (s *service) Storefront(ctx context.Context) (Storefront, error) {
	values, err := s.repo.GetMany(ctx, KeyMerchantUPIID, KeyLogoURL)
	if err != nil {
		return Storefront{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load storefront settings")
	}
	return Storefront{
		Name:           s.store.Name,
		MerchantUPIID:  strings.TrimSpace(values[KeyMerchantUPIID]),
		LogoURL:        strings.TrimSpace(values[KeyLogoURL]),
		WhatsAppNumber: s.store.WhatsAppNumber,
		PublicURL:      s.store.PublicURL,
	}, nil
}

func (s *service) chargeOr(ctx context.Context, key, raw string, fallback decimal.Decimal) decimal.Decimal {
	value, ok := parseCharge(raw)
	if ok {
		return value
	}
	if s.logg != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"key": key, "value": raw}), "malformed delivery charge, using default")
	}
	return fallback
}

func parseCharge(raw string) (decimal.Decimal, bool) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || value.IsNegative() {
		return decimal.Zero, false
	}
	return value, true
}

func toDTO(row models.SiteSetting) SettingDTO {
	return SettingDTO{Key: row.Key, Value: row.Value, UpdatedAt: row.UpdatedAt}
}
