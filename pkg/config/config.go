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
	Lockout       LockoutConfig
	Checkout      CheckoutConfig
	Prelogin      PreloginConfig
	Mail          MailConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MODAMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"MODAMARKET_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"MODAMARKET_APP_BASE_URL" default:""`
	LogLevel     string `envconfig:"MODAMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MODAMARKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MODAMARKET_DB_DSN"`
	Driver string `envconfig:"MODAMARKET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MODAMARKET_DB_HOST"`
	LegacyPort     int    `envconfig:"MODAMARKET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MODAMARKET_DB_USER"`
	LegacyPassword string `envconfig:"MODAMARKET_DB_PASSWORD"`
	LegacyName     string `envconfig:"MODAMARKET_DB_NAME"`
	LegacySSLMode  string `envconfig:"MODAMARKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MODAMARKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MODAMARKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MODAMARKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MODAMARKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MODAMARKET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MODAMARKET_REDIS_ADDR"`
	Password     string        `envconfig:"MODAMARKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"MODAMARKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MODAMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MODAMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MODAMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MODAMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MODAMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"MODAMARKET_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MODAMARKET_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"MODAMARKET_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"MODAMARKET_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MODAMARKET_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MODAMARKET_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MODAMARKET_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MODAMARKET_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MODAMARKET_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MODAMARKET_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MODAMARKET_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MODAMARKET_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MODAMARKET_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MODAMARKET_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MODAMARKET_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// LockoutConfig mirrors the storefront's advisory three-strikes login lock,
// enforced here against Redis so clearing browser storage cannot bypass it.
type LockoutConfig struct {
	MaxAttempts  int           `envconfig:"MODAMARKET_LOGIN_MAX_ATTEMPTS" default:"3"`
	LockDuration time.Duration `envconfig:"MODAMARKET_LOGIN_LOCK_DURATION" default:"30m"`
}

type CheckoutConfig struct {
	ShippingFee      int    `envconfig:"MODAMARKET_CHECKOUT_SHIPPING_FEE" default:"3000"`
	MinBonusPointUse int    `envconfig:"MODAMARKET_CHECKOUT_MIN_BONUS_POINT_USE" default:"1000"`
	OrderSheetPath   string `envconfig:"MODAMARKET_CHECKOUT_ORDER_SHEET_PATH" default:"/order"`
}

type PreloginConfig struct {
	StashTTL time.Duration `envconfig:"MODAMARKET_PRELOGIN_STASH_TTL" default:"30m"`
}

type MailConfig struct {
	SMTPAddr     string        `envconfig:"MODAMARKET_MAIL_SMTP_ADDR" default:""`
	From         string        `envconfig:"MODAMARKET_MAIL_FROM" default:"no-reply@modamarket.shop"`
	SendAttempts int           `envconfig:"MODAMARKET_MAIL_SEND_ATTEMPTS" default:"3"`
	SendBackoff  time.Duration `envconfig:"MODAMARKET_MAIL_SEND_BACKOFF" default:"500ms"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MODAMARKET_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MODAMARKET_AUTO_MIGRATE" default:"false"`
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
