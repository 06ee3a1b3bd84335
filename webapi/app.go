// Package webapi assembles the HTTP application: middleware, routes and the
// top-level error handler.
package webapi

import (
	"time"

	"github.com/amirasaad/banking/pkg/config"
	accountsvc "github.com/amirasaad/banking/pkg/service/account"
	authsvc "github.com/amirasaad/banking/pkg/service/auth"
	ledgersvc "github.com/amirasaad/banking/pkg/service/ledger"
	usersvc "github.com/amirasaad/banking/pkg/service/user"
	"github.com/amirasaad/banking/webapi/account"
	"github.com/amirasaad/banking/webapi/admin"
	"github.com/amirasaad/banking/webapi/auth"
	"github.com/amirasaad/banking/webapi/common"
	"github.com/amirasaad/banking/webapi/transaction"
	"github.com/amirasaad/banking/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Services bundles the application services the routes depend on.
type Services struct {
	Auth    *authsvc.Service
	User    *usersvc.Service
	Account *accountsvc.Service
	Ledger  *ledgersvc.Service
}

// New builds the fiber application with all routes mounted.
func New(cfg *config.App, svcs Services) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded")
		},
	}))
	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	auth.Routes(app, svcs.Auth, svcs.User)
	user.Routes(app, cfg.Jwt, svcs.User)
	account.Routes(app, cfg.Jwt, svcs.Account)
	transaction.Routes(app, cfg.Jwt, svcs.Ledger)
	admin.Routes(app, cfg.Jwt, svcs.Ledger, svcs.Account, svcs.User)

	return app
}
