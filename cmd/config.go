package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPPort            string
	HTTPShutdownTimeout time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	Migrate    bool

	// MaxWaitingTime is how long an entry may stay Searching before it expires.
	MaxWaitingTime time.Duration
	// RetryInterval is the cool-down between two queue attempts of one requester.
	RetryInterval       time.Duration
	MatcherIdleInterval time.Duration
	MatcherPollBackoff  time.Duration
	QueueDepthSchedule  string

	GrpcOrdersAddress string
	NotifyTimeout     time.Duration

	KafkaBrokers          []string
	KafkaQueueEventsTopic string

	RedisAddr        string
	RedisPassword    string
	ForecastCacheTTL time.Duration

	LogLevel string
}

// DSN returns the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}

// LoadConfig reads the configuration through getenv, usually os.Getenv.
// Every malformed value is reported, not only the first one.
func LoadConfig(getenv func(string) string) (Config, error) {
	r := envReader{getenv: getenv}

	cfg := Config{
		HTTPPort:            r.string("HTTP_PORT", "8080"),
		HTTPShutdownTimeout: r.duration("HTTP_SHUTDOWN_TIMEOUT", 15*time.Second),

		DBHost:     r.string("DB_HOST", "localhost"),
		DBPort:     r.string("DB_PORT", "5432"),
		DBUser:     r.string("DB_USER", ""),
		DBPassword: r.string("DB_PASSWORD", ""),
		DBName:     r.string("DB_NAME", ""),
		DBSslMode:  r.string("DB_SSLMODE", "disable"),
		Migrate:    r.bool("MIGRATE", false),

		MaxWaitingTime:      r.seconds("ORDER_MAX_WAITING_TIME", 180*time.Second),
		RetryInterval:       r.seconds("CREATE_ORDER_CRONE", 300*time.Second),
		MatcherIdleInterval: r.duration("MATCHER_IDLE_INTERVAL", 2*time.Second),
		MatcherPollBackoff:  r.duration("MATCHER_POLL_BACKOFF", 100*time.Millisecond),
		QueueDepthSchedule:  r.string("QUEUE_DEPTH_SCHEDULE", "*/5 * * * * *"),

		GrpcOrdersAddress: r.string("GRPC_ORDERS_ADDRESS", ""),
		NotifyTimeout:     r.duration("NOTIFY_TIMEOUT", 2*time.Second),

		KafkaBrokers:          r.list("KAFKA_BROKERS"),
		KafkaQueueEventsTopic: r.string("KAFKA_QUEUE_EVENTS_TOPIC", "courier-queue-events"),

		RedisAddr:        r.string("REDIS_ADDR", ""),
		RedisPassword:    r.string("REDIS_PASSWORD", ""),
		ForecastCacheTTL: r.duration("FORECAST_CACHE_TTL", 5*time.Second),

		LogLevel: r.string("LOG_LEVEL", "info"),
	}

	if cfg.MaxWaitingTime <= 0 {
		r.errs = append(r.errs, errors.New("ORDER_MAX_WAITING_TIME must be positive"))
	}
	if cfg.MatcherPollBackoff < 0 {
		r.errs = append(r.errs, errors.New("MATCHER_POLL_BACKOFF must not be negative"))
	}
	if cfg.RedisAddr != "" && cfg.ForecastCacheTTL <= 0 {
		r.errs = append(r.errs, errors.New("FORECAST_CACHE_TTL must be positive when REDIS_ADDR is set"))
	}

	return cfg, errors.Join(r.errs...)
}

type envReader struct {
	getenv func(string) string
	errs   []error
}

func (r *envReader) string(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *envReader) bool(key string, def bool) bool {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

// duration accepts Go durations ("2s", "100ms").
func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

// seconds accepts a bare number of seconds or a Go duration.
func (r *envReader) seconds(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return r.duration(key, def)
}

func (r *envReader) list(key string) []string {
	var out []string
	for _, item := range strings.Split(r.getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
