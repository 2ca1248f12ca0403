package main

import (
	"chat-mesh/auth"
	"chat-mesh/gateway"
	"chat-mesh/moderation"
	"chat-mesh/repositories"
	"chat-mesh/runtime"
	"chat-mesh/runtime/workers"
	"chat-mesh/search"
	"chat-mesh/services"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// maskRune picks the censoring rune from the configured string, so a
// literal '*' works in the environment without a numeric code point.
func maskRune(s string) rune {
	for _, r := range s {
		return r
	}
	return '*'
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the HTTP server and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	//  Defer will be executed before run() returned anything to main()
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Search index
	index, err := search.Open(config.SearchFilepath, log)
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = index.Close()
	}()

	// 4. Moderation (optional, on when a wordlist is configured)
	var moderator *moderation.Moderator
	if config.WordlistPath != "" {
		content, err := os.ReadFile(config.WordlistPath)
		if err != nil {
			return fmt.Errorf("wordlist reading failed: %w", err)
		}
		moderator, err = moderation.NewModerator(moderation.LoadWordlist(string(content)), maskRune(config.ModerationMask))
		if err != nil {
			return fmt.Errorf("moderation setup failed: %w", err)
		}
	}

	// 5. Repositories, Supervision & Hub
	users := repositories.NewUserRepository(db)
	chats := repositories.NewChatRepository(db)
	messages := repositories.NewMessageRepository(db)

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewHealthWorker(log, config.HealthInterval))
	registry := runtime.NewRegistry()

	hub := runtime.NewHub(log, sup, registry, chats, messages, config.BufferSize, config.SinkTimeout)
	hub.AddSinks(search.NewIndexSink(index, log))

	// 6. Services
	issuer := auth.NewIssuer(config.JWTSecret, config.AuthTokenDuration)
	authService := services.NewAuthService(users, issuer)
	chatService := services.NewChatService(users, chats, hub, log)
	messageService := services.NewMessageService(chats, messages, hub, runtime.NewClock(),
		moderator, index, log)

	// 7. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub.Start(ctx)

	// 8. HTTP Server Setup
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := gateway.NewServer(log, authService, chatService, messageService, users,
		hub, issuer, config.StreamBufferSize)
	httpServer := &http.Server{Addr: address, Handler: server.Router()}

	// Use an error channel to capture ListenAndServe() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 9. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 10. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown", "error", err)
	}
	hub.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
