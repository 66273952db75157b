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
	FreeAccess    FreeAccessConfig
	Media         MediaConfig
	GCS           GCSConfig
	MoMo          MoMoConfig
	Cron          CronConfig
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
	Env          string `envconfig:"MOKOLO_APP_ENV" required:"true"`
	Port         string `envconfig:"MOKOLO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MOKOLO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MOKOLO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MOKOLO_DB_DSN"`
	Driver string `envconfig:"MOKOLO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MOKOLO_DB_HOST"`
	LegacyPort     int    `envconfig:"MOKOLO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MOKOLO_DB_USER"`
	LegacyPassword string `envconfig:"MOKOLO_DB_PASSWORD"`
	LegacyName     string `envconfig:"MOKOLO_DB_NAME"`
	LegacySSLMode  string `envconfig:"MOKOLO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MOKOLO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MOKOLO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MOKOLO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MOKOLO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MOKOLO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MOKOLO_REDIS_ADDR"`
	Password     string        `envconfig:"MOKOLO_REDIS_PASSWORD"`
	DB           int           `envconfig:"MOKOLO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MOKOLO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MOKOLO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MOKOLO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MOKOLO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MOKOLO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"MOKOLO_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MOKOLO_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"MOKOLO_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"MOKOLO_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MOKOLO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MOKOLO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MOKOLO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MOKOLO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MOKOLO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MOKOLO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MOKOLO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MOKOLO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MOKOLO_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MOKOLO_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MOKOLO_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	// SubscriptionsEnabled is the deployment-time switch for the paid tiers.
	// When false every user resolves to the free-access scenario.
	SubscriptionsEnabled bool `envconfig:"MOKOLO_SUBSCRIPTIONS_ENABLED" default:"true"`
	AutoMigrate          bool `envconfig:"MOKOLO_AUTO_MIGRATE" default:"false"`
	UseSQLite            bool `envconfig:"MOKOLO_USE_SQLITE" default:"false"`
}

// FreeAccessConfig holds the operator-configured limits substituted when
// subscriptions are globally disabled.
type FreeAccessConfig struct {
	MaxPostsPerMonth int  `envconfig:"MOKOLO_FREE_ACCESS_MAX_POSTS" default:"1000"`
	MaxImagesPerPost int  `envconfig:"MOKOLO_FREE_ACCESS_MAX_IMAGES" default:"5"`
	MaxVideosPerPost int  `envconfig:"MOKOLO_FREE_ACCESS_MAX_VIDEOS" default:"1"`
	GrantAnalytics   bool `envconfig:"MOKOLO_FREE_ACCESS_GRANT_ANALYTICS" default:"false"`
}

type MediaConfig struct {
	MaxImageBytes    int64         `envconfig:"MOKOLO_MEDIA_MAX_IMAGE_BYTES" default:"10485760"`
	MaxVideoBytes    int64         `envconfig:"MOKOLO_MEDIA_MAX_VIDEO_BYTES" default:"104857600"`
	MaxVideoDuration time.Duration `envconfig:"MOKOLO_MEDIA_MAX_VIDEO_DURATION" default:"60s"`
}

type GCSConfig struct {
	RentalBucket      string        `envconfig:"MOKOLO_GCS_RENTAL_BUCKET" default:"rental-property-media"`
	MarketplaceBucket string        `envconfig:"MOKOLO_GCS_MARKETPLACE_BUCKET" default:"marketplace-media"`
	ProfileBucket     string        `envconfig:"MOKOLO_GCS_PROFILE_BUCKET" default:"profile-pictures"`
	UploadURLExpiry   time.Duration `envconfig:"MOKOLO_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	CredentialsJSON   string        `envconfig:"MOKOLO_GCS_CREDENTIALS_JSON"`
}

// MoMoConfig configures the MTN Mobile Money and Orange Money HTTP clients.
type MoMoConfig struct {
	MTNBaseURL       string        `envconfig:"MOKOLO_MOMO_MTN_BASE_URL"`
	MTNAPIKey        string        `envconfig:"MOKOLO_MOMO_MTN_API_KEY"`
	MTNSubscription  string        `envconfig:"MOKOLO_MOMO_MTN_SUBSCRIPTION_KEY"`
	OrangeBaseURL    string        `envconfig:"MOKOLO_MOMO_ORANGE_BASE_URL"`
	OrangeAPIKey     string        `envconfig:"MOKOLO_MOMO_ORANGE_API_KEY"`
	OrangeMerchantID string        `envconfig:"MOKOLO_MOMO_ORANGE_MERCHANT_ID"`
	RequestTimeout   time.Duration `envconfig:"MOKOLO_MOMO_REQUEST_TIMEOUT" default:"30s"`
	Currency         string        `envconfig:"MOKOLO_MOMO_CURRENCY" default:"XAF"`
}

type CronConfig struct {
	Interval              time.Duration `envconfig:"MOKOLO_CRON_INTERVAL" default:"24h"`
	LockTTL               time.Duration `envconfig:"MOKOLO_CRON_LOCK_TTL" default:"25h"`
	NotificationRetention time.Duration `envconfig:"MOKOLO_CRON_NOTIFICATION_RETENTION" default:"2160h"`
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
