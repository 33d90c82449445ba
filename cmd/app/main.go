package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"freight/cmd"
	"freight/internal/adapters/out/postgres/accountrepo"
	"freight/internal/adapters/out/postgres/ledgerrepo"
	"freight/internal/adapters/out/postgres/orderrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cast"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Failed to assemble application: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	// A missing .env file is fine in containerized deployments where the
	// environment is injected directly.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort:   requiredEnv("HTTP_PORT"),
		DBHost:     requiredEnv("DB_HOST"),
		DBPort:     requiredEnv("DB_PORT"),
		DBUser:     requiredEnv("DB_USER"),
		DBPassword: requiredEnv("DB_PASSWORD"),
		DBName:     requiredEnv("DB_NAME"),
		DBSslMode:  requiredEnv("DB_SSLMODE"),

		JWTSecret:   requiredEnv("JWT_SECRET"),
		OSRMBaseURL: os.Getenv("OSRM_BASE_URL"),

		ServiceFeePercent: floatEnv("SERVICE_FEE_PERCENT", 2),
		RatePerKm:         floatEnv("RATE_PER_KM", 50),
		PriceBandPercent:  floatEnv("PRICE_BAND_PERCENT", 20),

		ReserveTTL:       durationEnv("RESERVE_TTL", 10*time.Minute),
		CandidateTTL:     durationEnv("CANDIDATE_TTL", 15*time.Minute),
		FeedPollInterval: durationEnv("FEED_POLL_INTERVAL", 5*time.Second),
		HoldSweepSpec:    stringEnv("HOLD_SWEEP_SPEC", "0 * * * * *"),
	}
}

func requiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Missing required environment variable %s", key)
	}
	return value
}

func stringEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func floatEnv(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := cast.ToFloat64E(value)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return parsed
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := cast.ToDurationE(value)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return parsed
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&accountrepo.AccountDTO{},
		&ledgerrepo.TransactionDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	app.CreateHTTPServer().RegisterRoutes(e, app.CreateAuthMiddleware())
	e.GET("/ws/orders", app.CreateFeedHandler().Subscribe)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
