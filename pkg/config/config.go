package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Identity      IdentityConfig
	Booking       BookingConfig
	Reviews       ReviewsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BOOKARO_APP_ENV" required:"true"`
	Port         string `envconfig:"BOOKARO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BOOKARO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BOOKARO_LOG_WARN_STACK" default:"false"`

	CORSAllowedOrigins []string `envconfig:"BOOKARO_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BOOKARO_DB_DSN"`
	Driver string `envconfig:"BOOKARO_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BOOKARO_DB_HOST"`
	Port     int    `envconfig:"BOOKARO_DB_PORT" default:"5432"`
	User     string `envconfig:"BOOKARO_DB_USER"`
	Password string `envconfig:"BOOKARO_DB_PASSWORD"`
	Name     string `envconfig:"BOOKARO_DB_NAME"`
	SSLMode  string `envconfig:"BOOKARO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BOOKARO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BOOKARO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BOOKARO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BOOKARO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional; when URL and Address are both empty the API runs
// without distributed aggregate locks and login rate limiting.
type RedisConfig struct {
	URL          string        `envconfig:"BOOKARO_REDIS_URL"`
	Address      string        `envconfig:"BOOKARO_REDIS_ADDR"`
	Password     string        `envconfig:"BOOKARO_REDIS_PASSWORD"`
	DB           int           `envconfig:"BOOKARO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BOOKARO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BOOKARO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BOOKARO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BOOKARO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BOOKARO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"BOOKARO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BOOKARO_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BOOKARO_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BOOKARO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BOOKARO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BOOKARO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BOOKARO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BOOKARO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"BOOKARO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"BOOKARO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"BOOKARO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BOOKARO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BOOKARO_AUTO_MIGRATE" default:"false"`
}

// IdentityConfig points at the seeded identities upserted at startup.
type IdentityConfig struct {
	SeedFile string `envconfig:"BOOKARO_IDENTITY_SEED_FILE"`
}

type BookingConfig struct {
	// MinLeadTime is how far in the future a booking slot must start.
	MinLeadTime time.Duration `envconfig:"BOOKARO_BOOKING_MIN_LEAD_TIME" default:"0s"`
	// Timezone interprets booking_date and booking_time.
	Timezone string `envconfig:"BOOKARO_BOOKING_TIMEZONE" default:"UTC"`
}

// Location resolves Timezone, falling back to UTC when unset.
func (b BookingConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(b.Timezone) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading booking timezone %q: %w", b.Timezone, err)
	}
	return loc, nil
}

type ReviewsConfig struct {
	AggregateLockTTL  time.Duration `envconfig:"BOOKARO_REVIEWS_AGGREGATE_LOCK_TTL" default:"10s"`
	AggregateLockWait time.Duration `envconfig:"BOOKARO_REVIEWS_AGGREGATE_LOCK_WAIT" default:"2s"`
}

func (db *DBConfig) ensureDSN(sqlite bool) error {
	if sqlite {
		db.Driver = DriverSQLite
	}
	if db.DSN != "" {
		return nil
	}
	if sqlite {
		db.Driver = DriverSQLite
		db.DSN = "file:bookaro.db?_foreign_keys=on"
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
