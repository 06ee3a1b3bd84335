// Package transaction exposes deposits, withdrawals, transfers and
// transaction history over HTTP.
package transaction

import (
	"github.com/amirasaad/banking/pkg/config"
	"github.com/amirasaad/banking/pkg/money"
	ledgersvc "github.com/amirasaad/banking/pkg/service/ledger"
	"github.com/amirasaad/banking/webapi/common"
	"github.com/amirasaad/banking/webapi/middleware"
	"github.com/gofiber/fiber/v2"
)

// Routes mounts the money-movement endpoints.
func Routes(app *fiber.App, cfg config.Jwt, ledgerSvc *ledgersvc.Service) {
	app.Post("/api/transactions/deposit", middleware.JwtProtected(cfg), Deposit(ledgerSvc))
	app.Post("/api/transactions/withdraw", middleware.JwtProtected(cfg), Withdraw(ledgerSvc))
	app.Post("/api/transactions/transfer", middleware.JwtProtected(cfg), Transfer(ledgerSvc))
	app.Get("/api/transactions/:number", middleware.JwtProtected(cfg), History(ledgerSvc))
}

func parseAmount(c *fiber.Ctx, raw, currency string) (money.Money, bool) {
	code := money.DefaultCurrency
	if currency != "" {
		code = money.Code(currency)
	}
	amount, err := money.New(raw, code)
	if err != nil {
		_ = common.ProblemFromError(c, err)
		return money.Money{}, false
	}
	return amount, true
}

// Deposit records a deposit. Customers get a pending transaction awaiting
// admin approval; admins settle immediately on accounts they do not own.
func Deposit(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := middleware.Actor(c)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		input, err := common.BindAndValidate[MoveInput](c)
		if input == nil {
			return err
		}
		amount, ok := parseAmount(c, input.Amount, input.Currency)
		if !ok {
			return nil
		}
		tx, err := ledgerSvc.RequestDeposit(c.Context(), actor, input.AccountNumber, amount, input.Description)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Deposit recorded", ViewOf(tx))
	}
}

// Withdraw records a withdrawal under the same settlement rules as Deposit.
func Withdraw(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := middleware.Actor(c)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		input, err := common.BindAndValidate[MoveInput](c)
		if input == nil {
			return err
		}
		amount, ok := parseAmount(c, input.Amount, input.Currency)
		if !ok {
			return nil
		}
		tx, err := ledgerSvc.RequestWithdraw(c.Context(), actor, input.AccountNumber, amount, input.Description)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Withdrawal recorded", ViewOf(tx))
	}
}

// Transfer moves money between two accounts synchronously.
func Transfer(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := middleware.Actor(c)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		input, err := common.BindAndValidate[TransferInput](c)
		if input == nil {
			return err
		}
		amount, ok := parseAmount(c, input.Amount, input.Currency)
		if !ok {
			return nil
		}
		tx, err := ledgerSvc.Transfer(c.Context(), actor, input.SourceNumber, input.TargetNumber, amount, input.Description)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transfer completed", ViewOf(tx))
	}
}

// History lists all transactions an account participates in.
func History(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := middleware.Actor(c)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		txs, err := ledgerSvc.AccountTransactions(c.Context(), actor, c.Params("number"))
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions found", ViewsOf(txs))
	}
}
