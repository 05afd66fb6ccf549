package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	OrderLimit    OrderRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Eventing      EventingConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Pricing       PricingConfig
	Storefront    StorefrontConfig
	Payments      PaymentsConfig
	Admin         AdminConfig
	Maintenance   MaintenanceConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"LUXE_APP_ENV" required:"true"`
	Port         string   `envconfig:"LUXE_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"LUXE_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"LUXE_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"LUXE_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"LUXE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN string `envconfig:"LUXE_DB_DSN"`

	LegacyHost     string `envconfig:"LUXE_DB_HOST"`
	LegacyPort     int    `envconfig:"LUXE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LUXE_DB_USER"`
	LegacyPassword string `envconfig:"LUXE_DB_PASSWORD"`
	LegacyName     string `envconfig:"LUXE_DB_NAME"`
	LegacySSLMode  string `envconfig:"LUXE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LUXE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LUXE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LUXE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LUXE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LUXE_REDIS_URL"`
	Address      string        `envconfig:"LUXE_REDIS_ADDR"`
	Password     string        `envconfig:"LUXE_REDIS_PASSWORD"`
	DB           int           `envconfig:"LUXE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LUXE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LUXE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LUXE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LUXE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LUXE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"LUXE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LUXE_JWT_ISSUER" default:"luxe-candle"`
	ExpirationMinutes int    `envconfig:"LUXE_JWT_EXPIRATION_MINUTES" default:"720"`
}

// AccessTTL returns the lifetime of admin access tokens and their sessions.
func (j JWTConfig) AccessTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LUXE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LUXE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LUXE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LUXE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LUXE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LUXE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"LUXE_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LUXE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// OrderRateLimitConfig throttles public order placement per client IP.
type OrderRateLimitConfig struct {
	Window  time.Duration `envconfig:"LUXE_ORDER_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit int           `envconfig:"LUXE_ORDER_RATE_LIMIT_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LUXE_AUTO_MIGRATE" default:"false"`
	SeedCatalog bool `envconfig:"LUXE_SEED_CATALOG" default:"false"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"LUXE_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"LUXE_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"LUXE_GCP_CREDENTIALS_JSON"`
	CredentialsFile string `envconfig:"LUXE_GOOGLE_APPLICATION_CREDENTIALS"`
	PubSubEndpoint  string `envconfig:"LUXE_PUBSUB_ENDPOINT"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"LUXE_PUBSUB_ORDERS_TOPIC" default:"luxe-order-events"`
	OrdersSubscription string `envconfig:"LUXE_PUBSUB_ORDERS_SUBSCRIPTION" default:"luxe-order-events-notifications"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"LUXE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"LUXE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"LUXE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// PricingConfig holds the fallbacks used when the shop owner has not set
// delivery charges in site settings.
type PricingConfig struct {
	DefaultDelhiShipping string `envconfig:"LUXE_DEFAULT_SHIPPING_DELHI" default:"0"`
	DefaultOtherShipping string `envconfig:"LUXE_DEFAULT_SHIPPING_OTHER" default:"45"`
	OrderNumberPrefix    string `envconfig:"LUXE_ORDER_NUMBER_PREFIX" default:"LUM"`
}

// DelhiRate parses the default Delhi shipping rate.
func (p PricingConfig) DelhiRate() decimal.Decimal {
	return parseRate(p.DefaultDelhiShipping)
}

// OtherRate parses the default shipping rate for every other city.
func (p PricingConfig) OtherRate() decimal.Decimal {
	return parseRate(p.DefaultOtherShipping)
}

func (p PricingConfig) validate() error {
	for env, raw := range map[string]string{
		EnvDefaultShippingDelhi: p.DefaultDelhiShipping,
		EnvDefaultShippingOther: p.DefaultOtherShipping,
	} {
		value, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s must be a number: %w", env, err)
		}
		if value.IsNegative() {
			return fmt.Errorf("%s must not be negative", env)
		}
	}
	if strings.TrimSpace(p.OrderNumberPrefix) == "" {
		return fmt.Errorf("%s is required", EnvOrderNumberPrefix)
	}
	return nil
}

func parseRate(raw string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || value.IsNegative() {
		return decimal.Zero
	}
	return value
}

type StorefrontConfig struct {
	Name           string `envconfig:"LUXE_STORE_NAME" default:"Luxe Candle"`
	PublicURL      string `envconfig:"LUXE_STORE_PUBLIC_URL" default:"http://localhost:5000"`
	WhatsAppNumber string `envconfig:"LUXE_STORE_WHATSAPP_NUMBER" default:"919279547350"`
}

type PaymentsConfig struct {
	RazorpayKeyID     string `envconfig:"LUXE_RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `envconfig:"LUXE_RAZORPAY_KEY_SECRET"`
}

// RazorpayConfigured reports whether gateway callbacks can be verified.
func (p PaymentsConfig) RazorpayConfigured() bool {
	return strings.TrimSpace(p.RazorpayKeyID) != "" && strings.TrimSpace(p.RazorpayKeySecret) != ""
}

// AdminConfig seeds the first back-office account on an empty database.
type AdminConfig struct {
	BootstrapUsername string `envconfig:"LUXE_ADMIN_BOOTSTRAP_USERNAME"`
	BootstrapPassword string `envconfig:"LUXE_ADMIN_BOOTSTRAP_PASSWORD"`
}

// MaintenanceConfig drives the periodic cleanup jobs in cmd/cron-worker.
type MaintenanceConfig struct {
	Interval                  time.Duration `envconfig:"LUXE_MAINTENANCE_INTERVAL" default:"1h"`
	LockTTL                   time.Duration `envconfig:"LUXE_MAINTENANCE_LOCK_TTL" default:"10m"`
	OutboxRetentionDays       int           `envconfig:"LUXE_OUTBOX_RETENTION_DAYS" default:"7"`
	NotificationRetentionDays int           `envconfig:"LUXE_NOTIFICATION_RETENTION_DAYS" default:"30"`
	UnpaidOrderTTL            time.Duration `envconfig:"LUXE_UNPAID_ORDER_TTL" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
