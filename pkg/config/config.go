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
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Menu         MenuConfig
	Orders       OrdersConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Orders.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DINELINE_APP_ENV" required:"true"`
	Port         string `envconfig:"DINELINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DINELINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DINELINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"DINELINE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"DINELINE_DB_DSN"`
	Driver string `envconfig:"DINELINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DINELINE_DB_HOST"`
	LegacyPort     int    `envconfig:"DINELINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DINELINE_DB_USER"`
	LegacyPassword string `envconfig:"DINELINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"DINELINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"DINELINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DINELINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DINELINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DINELINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DINELINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DINELINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DINELINE_REDIS_ADDR"`
	Password     string        `envconfig:"DINELINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"DINELINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DINELINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DINELINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DINELINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DINELINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DINELINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DINELINE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DINELINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DINELINE_JWT_EXPIRATION_MINUTES" required:"true"`
}

type MenuConfig struct {
	CacheTTL time.Duration `envconfig:"DINELINE_MENU_CACHE_TTL" default:"5m"`
}

type OrdersConfig struct {
	// TaxRate is a fraction of the subtotal, e.g. 0.08 for 8%.
	TaxRate        decimal.Decimal `envconfig:"DINELINE_ORDERS_TAX_RATE" default:"0.08"`
	IdempotencyTTL time.Duration   `envconfig:"DINELINE_ORDERS_IDEMPOTENCY_TTL" default:"24h"`
}

func (o OrdersConfig) validate() error {
	if o.TaxRate.IsNegative() || o.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate %s out of range [0,1)", o.TaxRate)
	}
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DINELINE_AUTO_MIGRATE" default:"false"`
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
