// Package account exposes account opening, lookup and activation over HTTP.
package account

import (
	"github.com/amirasaad/banking/pkg/config"
	accountsvc "github.com/amirasaad/banking/pkg/service/account"
	"github.com/amirasaad/banking/webapi/common"
	"github.com/amirasaad/banking/webapi/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes mounts the account endpoints. All of them require authentication.
func Routes(app *fiber.App, cfg config.Jwt, accountSvc *accountsvc.Service) {
	app.Post("/api/accounts/create", middleware.JwtProtected(cfg), Create(accountSvc))
	app.Get("/api/accounts", middleware.JwtProtected(cfg), List(accountSvc))
	app.Get("/api/accounts/:number", middleware.JwtProtected(cfg), Get(accountSvc))
	app.Put("/api/accounts/activate/:number", middleware.JwtProtected(cfg), SetActive(accountSvc, true))
	app.Put("/api/accounts/deactivate/:number", middleware.JwtProtected(cfg), SetActive(accountSvc, false))
}

// Create files an account-opening request for a customer, or creates the
// account directly when the caller is an admin naming another user.
func Create(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := middleware.Actor(c)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		input, err := common.BindAndValidate[CreateInput](c)
		if input == nil {
			return err
		}

		if actor.IsPrivileged() {
			ownerID, err := uuid.Parse(input.OwnerID)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation Failed", "ownerId must be a valid UUID")
			}
			a, err := accountSvc.CreateAccount(c.Context(), actor, ownerID, input.AccountType)
			if err != nil {
				return common.ProblemFromError(c, err)
			}
			return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", ViewOf(a))
		}

		req, err := accountSvc.RequestAccountOpening(c.Context(), actor.ID, input.AccountType)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusAccepted, "Account request submitted", req)
	}
}

// List returns the caller's accounts, or another owner's for admins via the
// owner query parameter.
func List(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := middleware.Actor(c)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		ownerID := actor.ID
		if raw := c.Query("owner"); raw != "" {
			ownerID, err = uuid.Parse(raw)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation Failed", "owner must be a valid UUID")
			}
		}
		accounts, err := accountSvc.ListAccounts(c.Context(), actor, ownerID)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts found", ViewsOf(accounts))
	}
}

// Get returns a single account by number.
func Get(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := middleware.Actor(c)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		a, err := accountSvc.GetAccount(c.Context(), actor, c.Params("number"))
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account found", ViewOf(a))
	}
}

// SetActive flips the account activation flag. Admin only.
func SetActive(accountSvc *accountsvc.Service, active bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := middleware.Actor(c)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		changed, err := accountSvc.SetAccountActive(c.Context(), actor, c.Params("number"), active)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		message := "Account activation unchanged"
		if changed {
			message = "Account activation updated"
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, message, fiber.Map{
			"active":  active,
			"changed": changed,
		})
	}
}
