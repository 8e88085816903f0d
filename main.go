package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slothouse/api"
	"slothouse/application"
	"slothouse/cmd"
	"slothouse/config"
	"slothouse/database"
	"slothouse/domain/events"
	"slothouse/domain/utils"
	"slothouse/repository"

	"github.com/google/uuid"
)

func main() {
	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error:", err)
		}
		return
	}

	// Check for account provisioning subcommands
	if len(os.Args) > 1 && os.Args[1] == "create-account" {
		if err := handleCreateAccount(); err != nil {
			log.Fatal("Account creation error:", err)
		}
		return
	}
	if len(os.Args) > 1 && os.Args[1] == "issue-token" {
		if err := handleIssueToken(); err != nil {
			log.Fatal("Token error:", err)
		}
		return
	}

	// Normal service operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	// Run the application
	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error:", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: slothouse migrate [up|down|status] [args...]")
	}

	switch os.Args[2] {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", os.Args[2])
	}
}

// handleCreateAccount provisions a ledger account with the configured
// starting balance and prints its id. Registration normally does this
// through the account service; the subcommand exists for operations.
func handleCreateAccount() error {
	ctx := context.Background()
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	balance := cfg.StartingBalance
	if len(os.Args) > 2 {
		balance, err = utils.ParseDollars(os.Args[2])
		if err != nil {
			return fmt.Errorf("invalid starting balance %q: %w", os.Args[2], err)
		}
	}

	uowFactory := repository.NewUnitOfWorkFactory(db, events.NewBus())
	account, err := application.NewAccountService(uowFactory).CreateAccount(ctx, balance)
	if err != nil {
		return err
	}

	fmt.Printf("account %s created with balance %s\n", account.ID, utils.FormatDollars(account.Balance))
	return nil
}

// handleIssueToken signs a session token for an existing account id.
func handleIssueToken() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: slothouse issue-token account-id [ttl]")
	}

	accountID, err := uuid.Parse(os.Args[2])
	if err != nil {
		return fmt.Errorf("invalid account id: %w", err)
	}

	ttl := 24 * time.Hour
	if len(os.Args) > 3 {
		ttl, err = time.ParseDuration(os.Args[3])
		if err != nil {
			return fmt.Errorf("invalid ttl: %w", err)
		}
	}

	token, err := api.IssueToken(config.Get().JWTSecret, accountID, ttl)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
