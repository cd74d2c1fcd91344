package config

// EnvPrefix namespaces every dineline environment variable.
const EnvPrefix = "dineline"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Canonical env var names, shared with tests and ops tooling.
const (
	EnvAppEnv     = "DINELINE_APP_ENV"
	EnvPort       = "DINELINE_APP_PORT"
	EnvDBDSN      = "DINELINE_DB_DSN"
	EnvDBHost     = "DINELINE_DB_HOST"
	EnvDBPort     = "DINELINE_DB_PORT"
	EnvDBUser     = "DINELINE_DB_USER"
	EnvDBPassword = "DINELINE_DB_PASSWORD"
	EnvDBName     = "DINELINE_DB_NAME"
	EnvRedisURL   = "DINELINE_REDIS_URL"
	EnvJWTSecret  = "DINELINE_JWT_SECRET"
	EnvJWTIssuer  = "DINELINE_JWT_ISSUER"
	EnvJWTExpMins = "DINELINE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
