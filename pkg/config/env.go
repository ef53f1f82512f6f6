package config

const (
	EnvPrefix = "BOOKARO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvAppEnv     = "BOOKARO_APP_ENV"
	EnvPort       = "BOOKARO_APP_PORT"
	EnvDBDSN      = "BOOKARO_DB_DSN"
	EnvDBHost     = "BOOKARO_DB_HOST"
	EnvDBUser     = "BOOKARO_DB_USER"
	EnvDBName     = "BOOKARO_DB_NAME"
	EnvRedisURL   = "BOOKARO_REDIS_URL"
	EnvJWTSecret  = "BOOKARO_JWT_SECRET"
	EnvJWTIssuer  = "BOOKARO_JWT_ISSUER"
	EnvJWTExpMins = "BOOKARO_JWT_EXPIRATION_MINUTES"
	EnvSeedFile   = "BOOKARO_IDENTITY_SEED_FILE"
	EnvUseSQLite  = "BOOKARO_USE_SQLITE"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
