package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port          string
	DatabaseURL   string
	JWTSecret     string
	JWTTTL        time.Duration
	CORSOrigins   []string
	ReadOnly      bool
	LogLevel      string
	LogFormat     string
	RunMigrations bool
	Location      *time.Location
	CacheMaxCost  int64
}

// Load reads configuration from the environment, after loading a .env file if
// one is present.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.SetDefault("PORT", "3001")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "finance_user")
	v.SetDefault("DB_PASSWORD", "finance_pass")
	v.SetDefault("DB_NAME", "finance_db")
	v.SetDefault("JWT_TTL", "168h")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("READ_ONLY", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("CACHE_MAX_COST", 10000)
	v.AutomaticEnv()

	cfg := Config{
		Port:          v.GetString("PORT"),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTTTL:        v.GetDuration("JWT_TTL"),
		CORSOrigins:   splitList(v.GetString("CORS_ORIGINS")),
		ReadOnly:      v.GetBool("READ_ONLY"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     v.GetString("LOG_FORMAT"),
		RunMigrations: v.GetBool("RUN_MIGRATIONS"),
		Location:      time.Local,
		CacheMaxCost:  v.GetInt64("CACHE_MAX_COST"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = databaseURL(
			v.GetString("DB_HOST"), v.GetString("DB_PORT"),
			v.GetString("DB_USER"), v.GetString("DB_PASSWORD"), v.GetString("DB_NAME"),
		)
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.JWTTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL must be positive, got %q", v.GetString("JWT_TTL"))
	}
	if tz := v.GetString("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("load TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

func databaseURL(host, port, user, password, name string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, password),
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + name,
	}
	return u.String()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
