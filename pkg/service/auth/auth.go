// Package auth issues and verifies the JWTs that carry the actor
// descriptor between the transport layer and the ledger core.
package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/banking/pkg/config"
	"github.com/amirasaad/banking/pkg/domain/common"
	"github.com/amirasaad/banking/pkg/domain/user"
	"github.com/amirasaad/banking/pkg/repository"
	"github.com/amirasaad/banking/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Service authenticates users and mints actor tokens.
type Service struct {
	uow    repository.UnitOfWork
	cfg    config.Jwt
	logger *slog.Logger
}

// NewService creates an auth Service from the shared dependencies.
func NewService(deps config.Deps) *Service {
	return &Service{
		uow:    deps.Uow,
		cfg:    deps.Config.Jwt,
		logger: deps.Logger,
	}
}

// Login verifies the identity (username or email) and password, returning
// the user and a signed token. Failures are uniformly reported as invalid
// credentials.
func (s *Service) Login(
	ctx context.Context,
	identity, password string,
) (*user.User, string, error) {
	log := s.logger.With("op", "Login")

	var u *user.User
	var err error
	if strings.Contains(identity, "@") {
		u, err = s.uow.Users().GetByEmail(ctx, identity)
	} else {
		u, err = s.uow.Users().GetByUsername(ctx, identity)
	}
	if err != nil || !u.Active || !utils.CheckPasswordHash(password, u.Password) {
		log.Warn("login failed")
		return nil, "", user.ErrInvalidCredentials
	}

	token, err := s.GenerateToken(u)
	if err != nil {
		return nil, "", err
	}
	log.Info("login successful", "user", u.ID)
	return u, token, nil
}

// GenerateToken signs a JWT carrying the actor descriptor claims.
func (s *Service) GenerateToken(u *user.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  u.ID.String(),
		"username": u.Username,
		"role":     string(u.Role),
		"active":   u.Active,
		"exp":      time.Now().Add(s.cfg.Expiry).Unix(),
	})
	return token.SignedString([]byte(s.cfg.Secret))
}

// ActorFromToken rebuilds the actor descriptor from a verified token. The
// transport layer calls this after signature verification; the core never
// reads ambient authentication state.
func ActorFromToken(token *jwt.Token) (user.Actor, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return user.Actor{}, common.NewError(common.KindAuthorization, "malformed token claims")
	}
	rawID, _ := claims["user_id"].(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return user.Actor{}, common.NewError(common.KindAuthorization, "malformed user id claim")
	}
	rawRole, _ := claims["role"].(string)
	role, err := user.ParseRole(rawRole)
	if err != nil {
		return user.Actor{}, err
	}
	active, _ := claims["active"].(bool)
	return user.Actor{ID: id, Role: role, Active: active}, nil
}
