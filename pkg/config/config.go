package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "AYURCART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "AYURCART_APP_ENV"
	EnvPort       = "AYURCART_APP_PORT"
	EnvDBDSN      = "AYURCART_DB_DSN"
	EnvDBHost     = "AYURCART_DB_HOST"
	EnvDBUser     = "AYURCART_DB_USER"
	EnvDBName     = "AYURCART_DB_NAME"
	EnvRedisURL   = "AYURCART_REDIS_URL"
	EnvJWTSecret  = "AYURCART_JWT_SECRET"
	EnvJWTIssuer  = "AYURCART_JWT_ISSUER"
	EnvJWTExpMins = "AYURCART_JWT_EXPIRATION_MINUTES"
	EnvUploadDir  = "AYURCART_MEDIA_UPLOAD_DIR"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Media         MediaConfig
	Import        ImportConfig
	Cart          CartConfig
	Cookies       CookieConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AYURCART_APP_ENV" required:"true"`
	Port         string `envconfig:"AYURCART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"AYURCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AYURCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

// IsProd accepts both "prod" and "production".
func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN        string `envconfig:"AYURCART_DB_DSN"`
	SQLitePath string `envconfig:"AYURCART_DB_SQLITE_PATH" default:"ayurcart.db"`

	LegacyHost     string `envconfig:"AYURCART_DB_HOST"`
	LegacyPort     int    `envconfig:"AYURCART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AYURCART_DB_USER"`
	LegacyPassword string `envconfig:"AYURCART_DB_PASSWORD"`
	LegacyName     string `envconfig:"AYURCART_DB_NAME"`
	LegacySSLMode  string `envconfig:"AYURCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AYURCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AYURCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AYURCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AYURCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional. With neither URL nor address set, the API runs without
// idempotency replay, login throttling, and with ephemeral carts.
type RedisConfig struct {
	URL          string        `envconfig:"AYURCART_REDIS_URL"`
	Address      string        `envconfig:"AYURCART_REDIS_ADDR"`
	Password     string        `envconfig:"AYURCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"AYURCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AYURCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AYURCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AYURCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AYURCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AYURCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"AYURCART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AYURCART_JWT_ISSUER" default:"ayurcart"`
	ExpirationMinutes int    `envconfig:"AYURCART_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AYURCART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AYURCART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AYURCART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AYURCART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AYURCART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"AYURCART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"AYURCART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"AYURCART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"AYURCART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"AYURCART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"AYURCART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AYURCART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AYURCART_AUTO_MIGRATE" default:"false"`
}

type MediaConfig struct {
	UploadDir    string `envconfig:"AYURCART_MEDIA_UPLOAD_DIR" default:"public/uploads"`
	PublicPrefix string `envconfig:"AYURCART_MEDIA_PUBLIC_PREFIX" default:"/uploads"`
	MaxImageMB   int    `envconfig:"AYURCART_MEDIA_MAX_IMAGE_MB" default:"5"`
}

// MaxImageBytes converts the configured megabyte cap to bytes.
func (m MediaConfig) MaxImageBytes() int64 {
	if m.MaxImageMB <= 0 {
		return 5 << 20
	}
	return int64(m.MaxImageMB) << 20
}

type ImportConfig struct {
	MaxUploadMB int `envconfig:"AYURCART_IMPORT_MAX_UPLOAD_MB" default:"10"`
}

func (i ImportConfig) MaxUploadBytes() int64 {
	if i.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(i.MaxUploadMB) << 20
}

type CartConfig struct {
	TTL        time.Duration `envconfig:"AYURCART_CART_TTL" default:"720h"`
	CookieName string        `envconfig:"AYURCART_CART_COOKIE" default:"cart_id"`
}

type CookieConfig struct {
	Secure bool   `envconfig:"AYURCART_COOKIE_SECURE" default:"false"`
	Domain string `envconfig:"AYURCART_COOKIE_DOMAIN"`
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
