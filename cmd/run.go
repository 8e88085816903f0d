package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"slothouse/api"
	"slothouse/application"
	"slothouse/config"
	"slothouse/database"
	"slothouse/domain/events"
	"slothouse/domain/services"
	"slothouse/repository"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the settlement service
func Run(ctx context.Context) error {
	log.Info("Starting slothouse settlement service...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize event bus and observers
	eventBus := events.NewBus()
	subscribeObservers(eventBus)

	// Initialize unit of work factory and application services
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	engine := application.NewSettlementEngine(
		uowFactory,
		services.NewSecureOutcomeGenerator(),
		cfg.SettleMaxAttempts,
	)
	walletQueries := application.NewWalletQueries(uowFactory)

	// Initialize HTTP server
	router := api.NewRouter(cfg, api.NewWagerHandler(engine), api.NewWalletHandler(walletQueries))
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Infof("Listening in %s mode", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	// Drain in-flight requests; settlements themselves never abort mid-flight
	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown did not finish cleanly")
	}

	log.Info("Shutdown completed")
	return nil
}

// subscribeObservers attaches logging observers to the event bus
func subscribeObservers(bus *events.Bus) {
	bus.Subscribe(events.EventTypeAccountCreated, func(ctx context.Context, event events.Event) {
		e := event.(events.AccountCreatedEvent)
		log.WithFields(log.Fields{
			"accountID":      e.AccountID,
			"initialBalance": e.InitialBalance,
		}).Info("Account created")
	})

	bus.Subscribe(events.EventTypeWagerSettled, func(ctx context.Context, event events.Event) {
		e := event.(events.WagerSettledEvent)
		// A ten-times payout is the jackpot line; worth an INFO entry
		if e.WinAmount >= e.BetAmount*10 {
			log.WithFields(log.Fields{
				"accountID": e.AccountID,
				"gameID":    e.GameID,
				"betAmount": e.BetAmount,
				"winAmount": e.WinAmount,
				"outcome":   e.Outcome.Strings(),
				"rule":      e.RuleName,
			}).Info("Jackpot hit")
		}
	})
}
