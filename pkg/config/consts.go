package config

// EnvPrefix is passed to envconfig; every variable also carries its full name.
const EnvPrefix = "turnia"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "TURNIA_APP_ENV"
	EnvPort     = "TURNIA_APP_PORT"
	EnvDBDSN    = "TURNIA_DB_DSN"
	EnvDBHost   = "TURNIA_DB_HOST"
	EnvDBUser   = "TURNIA_DB_USER"
	EnvDBName   = "TURNIA_DB_NAME"
	EnvRedisURL = "TURNIA_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
