package app

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"lasalleserve/db"
	"lasalleserve/session"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Aliases so handlers stay short.
type Ctx = gin.Context
type H = gin.H

// App aggregates the process-wide dependencies and hands them to
// routes; nothing reaches for globals.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Log    *zap.Logger
	Config Config

	tokens *session.TokenStore
}

type Config struct {
	RedisAddr string
	RedisPwd  string

	JWTSecret string
	TokenTTL  time.Duration

	WebOrigin string

	// After-hours rule for room bookings.
	OperatingOpen  string
	OperatingClose string

	// First admin account, created when no admin exists yet.
	BootstrapEmail    string
	BootstrapPassword string

	Port string
	Env  string
}

func (a *App) Tokens() *session.TokenStore { return a.tokens }

func MustNew() *App {
	cfg := loadConfig()

	log := newLogger(cfg.Env)

	dbConn := db.ConnectDB(log)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis", zap.Error(err))
	}

	r := gin.Default()
	useCORS(r, cfg.WebOrigin)

	return &App{
		Router: r,
		DB:     dbConn,
		RDB:    rdb,
		Log:    log,
		Config: cfg,
		tokens: session.NewTokenStore(rdb),
	}
}

func (a *App) Close() {
	_ = a.RDB.Close()
	_ = a.Log.Sync()
}

func newLogger(env string) *zap.Logger {
	if env == "development" {
		l, _ := zap.NewDevelopment()
		return l
	}
	l, _ := zap.NewProduction()
	return l
}

// LoadEnv pulls .env into the process if present; real deployments set
// the environment directly.
func LoadEnv() { _ = godotenv.Load() }

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}

	ttlHours := 24
	if n, err := strconv.Atoi(get("TOKEN_TTL_HOURS", "24")); err == nil && n > 0 {
		ttlHours = n
	}

	opensAt, closesAt := "07:00", "17:00"
	if hours := os.Getenv("OPERATING_HOURS"); hours != "" {
		if parts := strings.SplitN(hours, "-", 2); len(parts) == 2 {
			opensAt, closesAt = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		}
	}

	return Config{
		RedisAddr:         get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:          os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         get("JWT_SECRET", "lasalleserve-dev-secret"),
		TokenTTL:          time.Duration(ttlHours) * time.Hour,
		WebOrigin:         get("WEB_ORIGIN", "http://localhost:3000"),
		OperatingOpen:     opensAt,
		OperatingClose:    closesAt,
		BootstrapEmail:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		Port:              get("PORT", "3001"),
		Env:               get("APP_ENV", "production"),
	}
}
