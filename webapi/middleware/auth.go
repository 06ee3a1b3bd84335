// Package middleware provides the JWT guard for protected routes and the
// helper that rebuilds the actor descriptor from the verified token.
package middleware

import (
	"errors"

	"github.com/amirasaad/banking/pkg/config"
	"github.com/amirasaad/banking/pkg/domain/user"
	"github.com/amirasaad/banking/pkg/service/auth"
	"github.com/amirasaad/banking/webapi/common"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JwtProtected verifies the bearer token signature and stashes the parsed
// token in the request locals.
func JwtProtected(cfg config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Bad Request", "Missing or malformed JWT")
	}
	return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid or expired JWT")
}

// Actor extracts the verified actor descriptor from the request. It must
// only be called behind JwtProtected.
func Actor(c *fiber.Ctx) (user.Actor, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return user.Actor{}, user.ErrUserUnauthorized
	}
	return auth.ActorFromToken(token)
}
