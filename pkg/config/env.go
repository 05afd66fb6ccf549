package config

const (
	EnvPrefix = "LUXE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "LUXE_APP_ENV"
	EnvPort     = "LUXE_APP_PORT"
	EnvLogLevel = "LUXE_LOG_LEVEL"

	EnvDBDSN  = "LUXE_DB_DSN"
	EnvDBHost = "LUXE_DB_HOST"
	EnvDBUser = "LUXE_DB_USER"
	EnvDBName = "LUXE_DB_NAME"

	EnvRedisURL = "LUXE_REDIS_URL"

	EnvJWTSecret  = "LUXE_JWT_SECRET"
	EnvJWTExpMins = "LUXE_JWT_EXPIRATION_MINUTES"

	EnvDefaultShippingDelhi = "LUXE_DEFAULT_SHIPPING_DELHI"
	EnvDefaultShippingOther = "LUXE_DEFAULT_SHIPPING_OTHER"
	EnvOrderNumberPrefix    = "LUXE_ORDER_NUMBER_PREFIX"

	EnvPubSubOrdersTopic = "LUXE_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub   = "LUXE_PUBSUB_ORDERS_SUBSCRIPTION"

	EnvRazorpayKeyID     = "LUXE_RAZORPAY_KEY_ID"
	EnvRazorpayKeySecret = "LUXE_RAZORPAY_KEY_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
