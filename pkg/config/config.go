package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "STOCKTRAIL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "STOCKTRAIL_DB_DSN"
	EnvDBHost = "STOCKTRAIL_DB_HOST"
	EnvDBUser = "STOCKTRAIL_DB_USER"
	EnvDBName = "STOCKTRAIL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	GCP       GCPConfig
	PubSub    PubSubConfig
	Stream    StreamConfig
	Inventory InventoryConfig
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
	Env          string `envconfig:"STOCKTRAIL_APP_ENV" required:"true"`
	Port         string `envconfig:"STOCKTRAIL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOCKTRAIL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOCKTRAIL_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"STOCKTRAIL_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STOCKTRAIL_DB_DSN"`
	Driver string `envconfig:"STOCKTRAIL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOCKTRAIL_DB_HOST"`
	LegacyPort     int    `envconfig:"STOCKTRAIL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOCKTRAIL_DB_USER"`
	LegacyPassword string `envconfig:"STOCKTRAIL_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOCKTRAIL_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOCKTRAIL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOCKTRAIL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOCKTRAIL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOCKTRAIL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOCKTRAIL_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"STOCKTRAIL_DB_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOCKTRAIL_REDIS_URL"`
	Address      string        `envconfig:"STOCKTRAIL_REDIS_ADDR"`
	Password     string        `envconfig:"STOCKTRAIL_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOCKTRAIL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOCKTRAIL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOCKTRAIL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOCKTRAIL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOCKTRAIL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOCKTRAIL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all; the stream
// bridge is optional and single-instance deployments run without it.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type GCPConfig struct {
	ProjectID string `envconfig:"STOCKTRAIL_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	StockEventsTopic string `envconfig:"STOCKTRAIL_PUBSUB_STOCK_EVENTS_TOPIC"`
}

// Enabled reports whether the external Pub/Sub sink should be wired.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.StockEventsTopic) != ""
}

type StreamConfig struct {
	SubscriberBuffer int           `envconfig:"STOCKTRAIL_STREAM_SUBSCRIBER_BUFFER" default:"32"`
	BridgeChannel    string        `envconfig:"STOCKTRAIL_STREAM_BRIDGE_CHANNEL" default:"stocktrail:events"`
	HeartbeatEvery   time.Duration `envconfig:"STOCKTRAIL_STREAM_HEARTBEAT" default:"25s"`
}

type InventoryConfig struct {
	LockTimeout time.Duration `envconfig:"STOCKTRAIL_INVENTORY_LOCK_TIMEOUT" default:"3s"`
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
