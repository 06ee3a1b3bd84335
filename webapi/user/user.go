// Package user exposes user lookup over HTTP.
package user

import (
	"github.com/amirasaad/banking/pkg/config"
	usersvc "github.com/amirasaad/banking/pkg/service/user"
	"github.com/amirasaad/banking/webapi/common"
	"github.com/amirasaad/banking/webapi/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes mounts the user endpoints.
func Routes(app *fiber.App, cfg config.Jwt, userSvc *usersvc.Service) {
	app.Get("/api/users/:id", middleware.JwtProtected(cfg), Get(userSvc))
}

// Get returns a user: admins any, customers only themselves.
func Get(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := middleware.Actor(c)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation Failed", "user id must be a valid UUID")
		}
		u, err := userSvc.Get(c.Context(), actor, id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User found", u)
	}
}
