// Package admin exposes the approval queues: pending transactions, pending
// account-opening requests, and the user directory.
package admin

import (
	"github.com/amirasaad/banking/pkg/config"
	accountdomain "github.com/amirasaad/banking/pkg/domain/account"
	accountsvc "github.com/amirasaad/banking/pkg/service/account"
	ledgersvc "github.com/amirasaad/banking/pkg/service/ledger"
	usersvc "github.com/amirasaad/banking/pkg/service/user"
	accountapi "github.com/amirasaad/banking/webapi/account"
	"github.com/amirasaad/banking/webapi/common"
	"github.com/amirasaad/banking/webapi/middleware"
	"github.com/amirasaad/banking/webapi/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes mounts the admin endpoints. Role enforcement happens in the
// services; the routes only require a verified token.
func Routes(
	app *fiber.App,
	cfg config.Jwt,
	ledgerSvc *ledgersvc.Service,
	accountSvc *accountsvc.Service,
	userSvc *usersvc.Service,
) {
	app.Get("/api/admin/pending-transactions", middleware.JwtProtected(cfg), PendingTransactions(ledgerSvc))
	app.Post("/api/admin/transactions/:id/process", middleware.JwtProtected(cfg), ProcessTransaction(ledgerSvc))
	app.Get("/api/admin/account-requests", middleware.JwtProtected(cfg), PendingRequests(accountSvc))
	app.Put("/api/admin/account-requests/:id/process", middleware.JwtProtected(cfg), ProcessRequest(accountSvc))
	app.Get("/api/admin/users", middleware.JwtProtected(cfg), ListUsers(userSvc))
}

// PendingTransactions lists transactions awaiting settlement.
func PendingTransactions(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := middleware.Actor(c)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		txs, err := ledgerSvc.PendingTransactions(c.Context(), actor)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Pending transactions", transaction.ViewsOf(txs))
	}
}

// ProcessTransaction settles a pending transaction with the given decision.
func ProcessTransaction(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := middleware.Actor(c)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		txID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation Failed", "transaction id must be a valid UUID")
		}
		input, err := common.BindAndValidate[ProcessTransactionInput](c)
		if input == nil {
			return err
		}
		tx, err := ledgerSvc.SettleTransaction(c.Context(), actor, txID, accountdomain.TransactionStatus(input.Decision))
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction processed", transaction.ViewOf(tx))
	}
}

// PendingRequests lists unresolved account-opening requests.
func PendingRequests(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := middleware.Actor(c)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		requests, err := accountSvc.PendingRequests(c.Context(), actor)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Pending account requests", requests)
	}
}

// ProcessRequest approves or rejects an account-opening request. Re-resolving
// an already-resolved request reports the fact instead of failing.
func ProcessRequest(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := middleware.Actor(c)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		requestID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation Failed", "request id must be a valid UUID")
		}
		input, err := common.BindAndValidate[ProcessRequestInput](c)
		if input == nil {
			return err
		}
		res, err := accountSvc.ResolveRequest(c.Context(), actor, requestID, input.Approve)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		view := ResolutionView{Request: res.Request, AlreadyProcessed: res.AlreadyProcessed}
		if res.Account != nil {
			v := accountapi.ViewOf(res.Account)
			view.Account = &v
		}
		if res.AlreadyProcessed {
			return common.SuccessResponseJSON(c, fiber.StatusOK, "Request already processed.", view)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Request processed", view)
	}
}

// ListUsers returns the user directory.
func ListUsers(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := middleware.Actor(c)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		users, err := userSvc.List(c.Context(), actor)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Users found", users)
	}
}
