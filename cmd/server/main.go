// Package main is the entry point for the API server. It loads
// configuration, connects the databases, wires the services and starts the
// HTTP listener.
package main

import (
	"log"
	"time"

	"pulsa/internal/config"
	"pulsa/internal/handlers"
	"pulsa/internal/metrics"
	"pulsa/internal/repositories"
	"pulsa/internal/routes"
	"pulsa/internal/services/auth"
	"pulsa/internal/services/deposit"
	"pulsa/internal/services/gateway"
	"pulsa/internal/services/topup"
	"pulsa/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	userRepo := repositories.NewUserRepository(repositories.DB)
	catalogRepo := repositories.NewCatalogRepository(repositories.DB)
	txRepo := repositories.NewTransactionRepository(repositories.DB)
	cache := repositories.NewRedisCacheRepository(repositories.RedisClient)

	walletSvc := wallet.NewService(userRepo, cache, wallet.Config{
		CacheTTL: config.GetDurationEnv("BALANCE_CACHE_TTL", wallet.DefaultCacheTTL),
	}, metrics.NewCollector())

	provider := gateway.NewSimulator(
		config.GetFloatEnv("PROVIDER_SUCCESS_RATE", gateway.DefaultSuccessRate),
		time.Now().UnixNano(),
		nil,
	)
	payments := gateway.NewStripeGateway(
		config.GetEnv("STRIPE_SECRET_KEY", ""),
		config.GetEnv("STRIPE_CURRENCY", "usd"),
		config.GetEnv("STRIPE_SOURCE", "tok_visa"),
	)

	gatewayTimeout := config.GetDurationEnv("GATEWAY_TIMEOUT", deposit.DefaultGatewayTimeout)
	depositSvc := deposit.NewService(userRepo, txRepo, walletSvc, payments, deposit.Config{
		GatewayTimeout: gatewayTimeout,
	})
	topupSvc := topup.NewService(userRepo, catalogRepo, txRepo, cache, walletSvc, provider, topup.Config{
		GatewayTimeout: gatewayTimeout,
	})

	jwtSecret := config.GetEnv("JWT_SECRET", "dev-secret")
	authSvc := auth.NewService(userRepo, auth.Config{
		JWTSecret: jwtSecret,
		TokenTTL:  config.GetDurationEnv("TOKEN_TTL", auth.DefaultTokenTTL),
	})

	app := fiber.New(fiber.Config{
		AppName:      "pulsa",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{
		Max:        config.GetIntEnv("RATE_LIMIT_MAX", 100),
		Expiration: time.Minute,
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	routes.Setup(app, routes.Deps{
		Auth:        handlers.NewAuthHandler(authSvc),
		Wallet:      handlers.NewWalletHandler(walletSvc, depositSvc),
		TopUp:       handlers.NewTopUpHandler(topupSvc),
		Transaction: handlers.NewTransactionHandler(txRepo),
		Catalog:     handlers.NewCatalogHandler(catalogRepo),
		JWTSecret:   jwtSecret,
	})

	addr := ":" + config.GetEnv("PORT", "8080")
	log.Printf("listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
