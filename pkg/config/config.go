package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "CART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageDriverMemory   = "memory"
	StorageDriverRedis    = "redis"
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv         = "CART_APP_ENV"
	EnvPort           = "CART_APP_PORT"
	EnvLogLevel       = "CART_LOG_LEVEL"
	EnvStorageKey     = "CART_STORAGE_KEY"
	EnvTaxRate        = "CART_TAX_RATE"
	EnvPersistTimeout = "CART_PERSIST_TIMEOUT"
	EnvStorageDriver  = "CART_STORAGE_DRIVER"
	EnvRedisURL       = "CART_REDIS_URL"
	EnvRedisAddr      = "CART_REDIS_ADDR"
	EnvDBDSN          = "CART_DB_DSN"
	EnvDBHost         = "CART_DB_HOST"
	EnvDBUser         = "CART_DB_USER"
	EnvDBName         = "CART_DB_NAME"
	EnvSQLitePath     = "CART_SQLITE_PATH"
	EnvAutoMigrate    = "CART_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App     AppConfig
	Cart    CartConfig
	Storage StorageConfig
	Redis   RedisConfig
	DB      DBConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Cart.TaxRate < 0 {
		return fmt.Errorf("%s must be non-negative", EnvTaxRate)
	}
	switch c.Storage.Driver {
	case StorageDriverMemory, StorageDriverSQLite:
		return nil
	case StorageDriverRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("%s or %s is required for the redis driver", EnvRedisURL, EnvRedisAddr)
		}
		return nil
	case StorageDriverPostgres:
		return c.DB.ensureDSN()
	default:
		return fmt.Errorf("unsupported %s %q", EnvStorageDriver, c.Storage.Driver)
	}
}

type AppConfig struct {
	Env          string   `envconfig:"CART_APP_ENV" required:"true"`
	Port         string   `envconfig:"CART_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"CART_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"CART_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"CART_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CartConfig tunes the engine and the order summary shown to consumers.
type CartConfig struct {
	StorageKey     string        `envconfig:"CART_STORAGE_KEY" default:"cart.items"`
	TaxRate        float64       `envconfig:"CART_TAX_RATE" default:"0.10"`
	PersistTimeout time.Duration `envconfig:"CART_PERSIST_TIMEOUT" default:"2s"`
	SessionHeader  string        `envconfig:"CART_SESSION_HEADER" default:"X-Cart-Session"`
	MaxSessions    int           `envconfig:"CART_MAX_SESSIONS" default:"1024"`
}

type StorageConfig struct {
	Driver      string `envconfig:"CART_STORAGE_DRIVER" default:"memory"`
	SQLitePath  string `envconfig:"CART_SQLITE_PATH" default:"file:cart.db?cache=shared"`
	AutoMigrate bool   `envconfig:"CART_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CART_REDIS_URL"`
	Address      string        `envconfig:"CART_REDIS_ADDR"`
	Password     string        `envconfig:"CART_REDIS_PASSWORD"`
	DB           int           `envconfig:"CART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CART_REDIS_WRITE_TIMEOUT" default:"5s"`
	KeyTTL       time.Duration `envconfig:"CART_REDIS_KEY_TTL" default:"0"`
}

type DBConfig struct {
	DSN string `envconfig:"CART_DB_DSN"`

	LegacyHost     string `envconfig:"CART_DB_HOST"`
	LegacyPort     int    `envconfig:"CART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CART_DB_USER"`
	LegacyPassword string `envconfig:"CART_DB_PASSWORD"`
	LegacyName     string `envconfig:"CART_DB_NAME"`
	LegacySSLMode  string `envconfig:"CART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
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
