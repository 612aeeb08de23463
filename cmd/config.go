package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"sharedcab/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	LockBackendRedis  = "redis"
	LockBackendMemory = "memory"
)

type Config struct {
	HTTPPort string
	LogLevel slog.Level

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LockBackend   string

	MatchRadiusKm          float64
	MatchTimeWindow        time.Duration
	DefaultDetourTolerance float64
	LockWait               time.Duration
	LockLease              time.Duration
	FreeCancellationWindow time.Duration
	CancellationFeeRate    decimal.Decimal
	RebalanceWorkers       int
	RebalanceQueue         int
	SurgeCacheTTL          time.Duration
	GroupLockLead          time.Duration

	KafkaHost               string
	KafkaBookingEventsTopic string
}

// LoadConfig reads envFile when it exists and then the process environment,
// which wins over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	p := &envParser{}
	cfg := Config{
		HTTPPort: p.str("HTTP_PORT", "8080"),
		LogLevel: p.level("LOG_LEVEL", slog.LevelInfo),

		DBHost:     p.str("DB_HOST", "localhost"),
		DBPort:     p.str("DB_PORT", "5432"),
		DBUser:     p.str("DB_USER", "postgres"),
		DBPassword: p.str("DB_PASSWORD", ""),
		DBName:     p.str("DB_NAME", "sharedcab"),
		DBSslMode:  p.str("DB_SSLMODE", "disable"),

		RedisAddr:     p.str("REDIS_ADDR", "localhost:6379"),
		RedisPassword: p.str("REDIS_PASSWORD", ""),
		RedisDB:       p.integer("REDIS_DB", 0),
		LockBackend:   strings.ToLower(p.str("LOCK_BACKEND", LockBackendRedis)),

		MatchRadiusKm:          p.float("MATCH_RADIUS_KM", 5),
		MatchTimeWindow:        p.duration("MATCH_TIME_WINDOW_MIN", 30, time.Minute),
		DefaultDetourTolerance: p.float("DEFAULT_DETOUR_TOLERANCE", 0.20),
		LockWait:               p.duration("LOCK_WAIT_SEC", 5, time.Second),
		LockLease:              p.duration("LOCK_LEASE_SEC", 10, time.Second),
		FreeCancellationWindow: p.duration("FREE_CANCELLATION_MIN", 10, time.Minute),
		CancellationFeeRate:    p.decimal("CANCELLATION_FEE_RATE", "0.20"),
		RebalanceWorkers:       p.integer("REBALANCE_WORKERS", 4),
		RebalanceQueue:         p.integer("REBALANCE_QUEUE", 256),
		SurgeCacheTTL:          p.duration("SURGE_CACHE_TTL_SEC", 60, time.Second),
		GroupLockLead:          p.duration("GROUP_LOCK_LEAD_MIN", 10, time.Minute),

		KafkaHost:               p.str("KAFKA_HOST", ""),
		KafkaBookingEventsTopic: p.str("KAFKA_BOOKING_EVENTS_TOPIC", "booking-events"),
	}

	if err := errors.Join(append(p.errList, cfg.Validate())...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errList []error
	if c.HTTPPort == "" {
		errList = append(errList, errs.NewValueIsRequiredError("HTTP_PORT"))
	}
	if c.LockBackend != LockBackendRedis && c.LockBackend != LockBackendMemory {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("LOCK_BACKEND",
			fmt.Errorf("%q is neither %q nor %q", c.LockBackend, LockBackendRedis, LockBackendMemory)))
	}
	if c.LockBackend == LockBackendRedis && c.RedisAddr == "" {
		errList = append(errList, errs.NewValueIsRequiredError("REDIS_ADDR"))
	}
	if c.MatchRadiusKm <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("MATCH_RADIUS_KM", c.MatchRadiusKm, "> 0", "any"))
	}
	if c.DefaultDetourTolerance < 0 || c.DefaultDetourTolerance > 0.5 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("DEFAULT_DETOUR_TOLERANCE", c.DefaultDetourTolerance, 0, 0.5))
	}
	if c.LockWait <= 0 || c.LockLease <= 0 {
		errList = append(errList, errs.NewValueIsInvalidError("LOCK_WAIT_SEC and LOCK_LEASE_SEC must be positive"))
	}
	if c.CancellationFeeRate.IsNegative() || c.CancellationFeeRate.GreaterThan(decimal.NewFromInt(1)) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("CANCELLATION_FEE_RATE", c.CancellationFeeRate, 0, 1))
	}
	if c.RebalanceWorkers <= 0 || c.RebalanceQueue <= 0 {
		errList = append(errList, errs.NewValueIsInvalidError("REBALANCE_WORKERS and REBALANCE_QUEUE must be positive"))
	}
	if c.KafkaHost != "" && c.KafkaBookingEventsTopic == "" {
		errList = append(errList, errs.NewValueIsRequiredError("KAFKA_BOOKING_EVENTS_TOPIC"))
	}
	return errors.Join(errList...)
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// envParser collects parse failures instead of stopping at the first one.
type envParser struct {
	errList []error
}

func (p *envParser) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return def
}

func (p *envParser) integer(key string, def int) int {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errList = append(p.errList, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return v
}

func (p *envParser) float(key string, def float64) float64 {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errList = append(p.errList, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return v
}

// duration reads a whole number of units.
func (p *envParser) duration(key string, def int, unit time.Duration) time.Duration {
	return time.Duration(p.integer(key, def)) * unit
}

func (p *envParser) decimal(key, def string) decimal.Decimal {
	v, err := decimal.NewFromString(p.str(key, def))
	if err != nil {
		p.errList = append(p.errList, errs.NewValueIsInvalidErrorWithCause(key, err))
		return decimal.RequireFromString(def)
	}
	return v
}

func (p *envParser) level(key string, def slog.Level) slog.Level {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(raw)); err != nil {
		p.errList = append(p.errList, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return l
}
