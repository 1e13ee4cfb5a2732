// Package routes wires the HTTP surface onto the fiber app.
package routes

import (
	"pulsa/internal/handlers"
	"pulsa/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Deps carries the handlers and middleware config the router needs.
type Deps struct {
	Auth        *handlers.AuthHandler
	Wallet      *handlers.WalletHandler
	TopUp       *handlers.TopUpHandler
	Transaction *handlers.TransactionHandler
	Catalog     *handlers.CatalogHandler
	JWTSecret   string
}

func Setup(app *fiber.App, deps Deps) {
	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")
	api.Post("/register", deps.Auth.Register)
	api.Post("/login", deps.Auth.Login)

	authenticated := api.Group("/", middleware.Auth(deps.JWTSecret))

	wallet := authenticated.Group("/wallet")
	wallet.Get("/", deps.Wallet.GetBalance)
	wallet.Post("/deposit", deps.Wallet.Deposit)
	wallet.Post("/withdraw", deps.Wallet.Withdraw)

	authenticated.Post("/topup", deps.TopUp.TopUp)
	authenticated.Get("/transactions", deps.Transaction.List)

	catalog := authenticated.Group("/catalog")
	catalog.Get("/categories", deps.Catalog.ListCategories)
	catalog.Get("/items", deps.Catalog.ListItems)
}
