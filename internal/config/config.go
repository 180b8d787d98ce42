package config

import (
	"strings"
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/env"
)

type Config struct {
	Port        string
	ENV         string
	DB          DatabaseConfig
	RateLimiter RateLimiterConfig
	Cors        CorsConfig
	Mail        MailConfig
	Auth        AuthConfig
	Minio       MinioConfig
	Dashboard   DashboardConfig
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

type CorsConfig struct {
	AllowOrigins []string
}

type AuthConfig struct {
	JWT_SECRET        string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	DefaultAdminEmail string
	DefaultAdminPass  string
}

type DatabaseConfig struct {
	// DATABASE_URL selects PostgreSQL when it uses the postgres:// or postgresql:// scheme.
	// Otherwise the SQLite file at SQLITE_DATABASE is used.
	DATABASE_URL    string
	SQLITE_DATABASE string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxIdleTime     string
	// Advisory lock key held by the migration runner on PostgreSQL.
	MigrationLockKey int64
}

type MailConfig struct {
	SEND_GRID  SendGridConfig
	FROM_EMAIL string
}

type SendGridConfig struct {
	API_KEY string
}

type MinioConfig struct {
	ENDPOINT   string
	ACCESS_KEY string
	SECRET_KEY string
	BUCKET     string
	USE_SSL    bool
}

type DashboardConfig struct {
	CacheBucket time.Duration
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.ENV, "production")
}

func (db DatabaseConfig) UsePostgres() bool {
	return strings.HasPrefix(db.DATABASE_URL, "postgres://") || strings.HasPrefix(db.DATABASE_URL, "postgresql://")
}

func (m MinioConfig) Enabled() bool {
	return m.ENDPOINT != ""
}

func GetConfig() Config {
	return Config{
		Port: env.GetString("PORT", "8000"),
		ENV:  env.GetString("ENV", "development"),
		DB: DatabaseConfig{
			DATABASE_URL:     env.GetString("DATABASE_URL", ""),
			SQLITE_DATABASE:  env.GetString("SQLITE_DATABASE", "biotech_dashboard.db"),
			MaxOpenConns:     env.GetInt("DB_MAX_OPEN_CONNS", 30),
			MaxIdleConns:     env.GetInt("DB_MAX_IDLE_CONNS", 30),
			MaxIdleTime:      env.GetString("DB_MAX_IDLE_TIME", "15m"),
			MigrationLockKey: int64(env.GetInt("DB_MIGRATION_LOCK_KEY", 724_310_001)),
		},
		// By default if not specified, we allow 5000 requests per minute on all routes
		RateLimiter: RateLimiterConfig{
			RequestsPerTimeFrame: env.GetInt("RATE_LIMIT_REQUESTS_PER_TIME_FRAME", 5000),
			TimeFrame:            env.GetDuration("RATE_LIMIT_TIME_FRAME", time.Minute),
			Enabled:              env.GetBool("RATE_LIMIT_ENABLED", true),
		},
		// The frontend is served from another origin; allow all by default.
		Cors: CorsConfig{
			AllowOrigins: splitList(env.GetString("CORS_ALLOW_ORIGINS", "*")),
		},
		Mail: MailConfig{
			FROM_EMAIL: env.GetString("MAIL_FROM_MAIL", ""),
			SEND_GRID: SendGridConfig{
				API_KEY: env.GetString("MAIL_SEND_GRID_API_KEY", ""),
			},
		},
		Auth: AuthConfig{
			JWT_SECRET:        env.GetString("JWT_SECRET_KEY", "dev-secret-key-change-in-production"),
			AccessTokenTTL:    env.GetDuration("AUTH_ACCESS_TOKEN_TTL", 24*time.Hour),
			RefreshTokenTTL:   env.GetDuration("AUTH_REFRESH_TOKEN_TTL", 7*24*time.Hour),
			DefaultAdminEmail: env.GetString("ADMIN_EMAIL", "admin@biotech.com"),
			DefaultAdminPass:  env.GetString("ADMIN_PASSWORD", "admin123"),
		},
		Minio: MinioConfig{
			ENDPOINT:   env.GetString("MINIO_ENDPOINT", ""),
			ACCESS_KEY: env.GetString("MINIO_ACCESS_KEY", ""),
			SECRET_KEY: env.GetString("MINIO_SECRET_KEY", ""),
			BUCKET:     env.GetString("MINIO_BUCKET", "biotech-dashboard"),
			USE_SSL:    env.GetBool("MINIO_USE_SSL", false),
		},
		Dashboard: DashboardConfig{
			CacheBucket: env.GetDuration("DASHBOARD_CACHE_BUCKET", 30*time.Second),
		},
	}
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
