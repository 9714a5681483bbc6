package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "MODAMARKET"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "MODAMARKET_APP_ENV"
	EnvPort       = "MODAMARKET_APP_PORT"
	EnvDBDSN      = "MODAMARKET_DB_DSN"
	EnvDBHost     = "MODAMARKET_DB_HOST"
	EnvDBUser     = "MODAMARKET_DB_USER"
	EnvDBName     = "MODAMARKET_DB_NAME"
	EnvRedisURL   = "MODAMARKET_REDIS_URL"
	EnvJWTSecret  = "MODAMARKET_JWT_SECRET"
	EnvJWTIssuer  = "MODAMARKET_JWT_ISSUER"
	EnvJWTExpMins = "MODAMARKET_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
