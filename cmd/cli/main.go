// Command cli is the operations console. It talks to the database directly
// and is meant for tasks that have no public API surface, like provisioning
// admin users.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"github.com/amirasaad/banking/infra"
	infrarepo "github.com/amirasaad/banking/infra/repository"
	"github.com/amirasaad/banking/pkg/config"
	"github.com/amirasaad/banking/pkg/domain/account"
	"github.com/amirasaad/banking/pkg/domain/user"
	"github.com/amirasaad/banking/pkg/repository"
	"github.com/fatih/color"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg, err := config.Load(logger)
	if err != nil {
		fail("failed to load configuration:", err)
	}
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		fail("failed to connect to database:", err)
	}
	uow := infrarepo.NewUoW(db)

	switch os.Args[1] {
	case "create-admin":
		createAdmin(uow)
	case "pending-requests":
		pendingRequests(uow)
	case "pending-transactions":
		pendingTransactions(uow)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: cli <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  create-admin <username> <email>   provision an admin user")
	fmt.Println("  pending-requests                  list unresolved account requests")
	fmt.Println("  pending-transactions              list transactions awaiting settlement")
}

func fail(msg string, err error) {
	color.Red("%s %v", msg, err)
	os.Exit(1)
}

func createAdmin(uow repository.UnitOfWork) {
	if len(os.Args) < 4 {
		fmt.Println("Usage: cli create-admin <username> <email>")
		return
	}
	username, email := os.Args[2], os.Args[3]

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fail("failed to read password:", err)
	}

	u, err := user.New(username, email, string(password), user.RoleAdmin)
	if err != nil {
		fail("invalid admin user:", err)
	}
	if err := uow.Users().Create(context.Background(), u); err != nil {
		fail("failed to create admin:", err)
	}
	color.Green("admin %s created (id %s)", u.Username, u.ID)
}

func pendingRequests(uow repository.UnitOfWork) {
	requests, err := uow.OpeningRequests().ListByStatus(context.Background(), account.RequestPending)
	if err != nil {
		fail("failed to list requests:", err)
	}
	if len(requests) == 0 {
		color.Yellow("no pending account requests")
		return
	}
	for _, r := range requests {
		fmt.Printf("%s  owner=%s type=%s requested=%s\n",
			r.ID, r.OwnerID, r.AccountType, r.RequestedAt.Format("2006-01-02 15:04:05"))
	}
}

func pendingTransactions(uow repository.UnitOfWork) {
	txs, err := uow.Transactions().ListByStatus(context.Background(), account.StatusPending)
	if err != nil {
		fail("failed to list transactions:", err)
	}
	if len(txs) == 0 {
		color.Yellow("no pending transactions")
		return
	}
	for _, tx := range txs {
		number := tx.TargetNumber
		if tx.Type == account.TransactionWithdraw {
			number = tx.SourceNumber
		}
		fmt.Printf("%s  %s %s account=%s at=%s\n",
			tx.ID, tx.Type, tx.Amount, number, tx.Timestamp.Format("2006-01-02 15:04:05"))
	}
}
