package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Attendance AttendanceConfig
	Clock      ClockConfig
	Cache      CacheConfig
	Export     ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AttendanceConfig carries the organisation's classification policy: the
// minute offsets past an hour's start marking lateness and absence, the
// school-year start used for expected-hour counts, and the year from which
// students count as seniors. DemoMode permits repeated check-ins per hour.
type AttendanceConfig struct {
	MaxLateMinutes   int
	MaxAbsentMinutes int
	SeniorYear       int
	YearStart        string
	DemoMode         bool
}

// ClockConfig holds the virtual clock defaults. Both values are canonical
// strings (YYYY/MM/DD and HH:MM); the clock falls back to them whenever a
// field is cleared or a submitted value does not parse.
type ClockConfig struct {
	DefaultDate string
	DefaultTime string
}

// CacheConfig tunes the Redis-backed schedule cache.
type CacheConfig struct {
	Enabled     bool
	ScheduleTTL time.Duration
}

// ExportConfig tunes the background export archive: where rendered files
// land, how long their download links stay valid, and the worker count.
type ExportConfig struct {
	Dir       string
	URLSecret string
	URLTTL    time.Duration
	Workers   int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Attendance = AttendanceConfig{
		MaxLateMinutes:   v.GetInt("MAX_LATE_MINUTES"),
		MaxAbsentMinutes: v.GetInt("MAX_ABSENT_MINUTES"),
		SeniorYear:       v.GetInt("SENIOR_YEAR"),
		YearStart:        v.GetString("YEAR_START"),
		DemoMode:         v.GetBool("DEMO_MODE"),
	}

	cfg.Clock = ClockConfig{
		DefaultDate: v.GetString("VIRTUAL_DEFAULT_DATE"),
		DefaultTime: v.GetString("VIRTUAL_DEFAULT_TIME"),
	}

	cfg.Cache = CacheConfig{
		Enabled:     v.GetBool("ENABLE_CACHE"),
		ScheduleTTL: parseDuration(v.GetString("SCHEDULE_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Export = ExportConfig{
		Dir:       v.GetString("EXPORT_DIR"),
		URLSecret: v.GetString("EXPORT_URL_SECRET"),
		URLTTL:    parseDuration(v.GetString("EXPORT_URL_TTL"), 24*time.Hour),
		Workers:   v.GetInt("EXPORT_WORKERS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "presentie")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "presentie-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("MAX_LATE_MINUTES", 5)
	v.SetDefault("MAX_ABSENT_MINUTES", 30)
	v.SetDefault("SENIOR_YEAR", 4)
	v.SetDefault("YEAR_START", "2021/08/30")
	v.SetDefault("DEMO_MODE", true)

	v.SetDefault("VIRTUAL_DEFAULT_DATE", "2022/01/20")
	v.SetDefault("VIRTUAL_DEFAULT_TIME", "15:30")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("SCHEDULE_CACHE_TTL", "5m")

	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("EXPORT_URL_SECRET", "dev_export_secret")
	v.SetDefault("EXPORT_URL_TTL", "24h")
	v.SetDefault("EXPORT_WORKERS", 2)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
