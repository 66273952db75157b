package config

// EnvPrefix scopes every environment variable consumed by the service.
const EnvPrefix = "MOKOLO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "MOKOLO_APP_ENV"
	EnvPort       = "MOKOLO_APP_PORT"
	EnvDBDSN      = "MOKOLO_DB_DSN"
	EnvDBHost     = "MOKOLO_DB_HOST"
	EnvDBUser     = "MOKOLO_DB_USER"
	EnvDBName     = "MOKOLO_DB_NAME"
	EnvRedisURL   = "MOKOLO_REDIS_URL"
	EnvJWTSecret  = "MOKOLO_JWT_SECRET"
	EnvJWTIssuer  = "MOKOLO_JWT_ISSUER"
	EnvJWTExpMins = "MOKOLO_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
