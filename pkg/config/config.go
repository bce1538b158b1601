package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SDAUTO"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv   = "SDAUTO_APP_ENV"
	EnvPort     = "SDAUTO_APP_PORT"
	EnvDBDSN    = "SDAUTO_DB_DSN"
	EnvDBHost   = "SDAUTO_DB_HOST"
	EnvDBUser   = "SDAUTO_DB_USER"
	EnvDBName   = "SDAUTO_DB_NAME"
	EnvRedisURL = "SDAUTO_REDIS_URL"
	EnvBlobRoot = "SDAUTO_BLOB_ROOT"
	EnvBlobBase = "SDAUTO_BLOB_PUBLIC_BASE_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Blob         BlobConfig
	Fetch        FetchConfig
	Media        MediaConfig
	RateLimit    RateLimitConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SDAUTO_APP_ENV" required:"true"`
	Port         string `envconfig:"SDAUTO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SDAUTO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SDAUTO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SDAUTO_DB_DSN"`
	Driver string `envconfig:"SDAUTO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SDAUTO_DB_HOST"`
	LegacyPort     int    `envconfig:"SDAUTO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SDAUTO_DB_USER"`
	LegacyPassword string `envconfig:"SDAUTO_DB_PASSWORD"`
	LegacyName     string `envconfig:"SDAUTO_DB_NAME"`
	LegacySSLMode  string `envconfig:"SDAUTO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SDAUTO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SDAUTO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SDAUTO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SDAUTO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SDAUTO_REDIS_URL"`
	Address      string        `envconfig:"SDAUTO_REDIS_ADDR"`
	Password     string        `envconfig:"SDAUTO_REDIS_PASSWORD"`
	DB           int           `envconfig:"SDAUTO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SDAUTO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SDAUTO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SDAUTO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SDAUTO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SDAUTO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// BlobConfig describes the disk-backed artifact store and the public URL base
// that stored keys resolve against.
type BlobConfig struct {
	RootDir       string `envconfig:"SDAUTO_BLOB_ROOT" required:"true"`
	PublicBaseURL string `envconfig:"SDAUTO_BLOB_PUBLIC_BASE_URL" required:"true"`
}

// FetchConfig bounds remote image ingestion.
type FetchConfig struct {
	Timeout      time.Duration `envconfig:"SDAUTO_FETCH_TIMEOUT" default:"30s"`
	MaxBytes     int64         `envconfig:"SDAUTO_FETCH_MAX_BYTES" default:"5242880"`
	MaxRedirects int           `envconfig:"SDAUTO_FETCH_MAX_REDIRECTS" default:"3"`
}

// MediaConfig caps per-product media collections and upload sizes.
type MediaConfig struct {
	MaxImages        int   `envconfig:"SDAUTO_MEDIA_MAX_IMAGES" default:"20"`
	MaxVideos        int   `envconfig:"SDAUTO_MEDIA_MAX_VIDEOS" default:"5"`
	UploadMaxBytes   int64 `envconfig:"SDAUTO_MEDIA_UPLOAD_MAX_BYTES" default:"5242880"`
	RequestMaxMemory int64 `envconfig:"SDAUTO_MEDIA_REQUEST_MAX_MEMORY" default:"33554432"`
}

// RateLimitConfig throttles write endpoints per client IP. A zero window or
// limit disables throttling.
type RateLimitConfig struct {
	WriteWindow time.Duration `envconfig:"SDAUTO_RATE_LIMIT_WRITE_WINDOW" default:"1m"`
	WriteLimit  int           `envconfig:"SDAUTO_RATE_LIMIT_WRITE_LIMIT" default:"120"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SDAUTO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SDAUTO_AUTO_MIGRATE" default:"false"`
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
