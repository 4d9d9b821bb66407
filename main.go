package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bikecare/internal/backend"
	intconfig "bikecare/internal/config"
	"bikecare/internal/gateway"
	api "bikecare/internal/http"
	"bikecare/internal/http/handlers"
	"bikecare/internal/http/middleware"
	"bikecare/internal/notification"
	"bikecare/internal/payment"
	"bikecare/internal/session"

	"github.com/gin-gonic/gin"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	// Client state lives in MySQL when a DSN is configured, in memory otherwise.
	var store session.Store = session.NewMemoryStore()
	if env.DBDSN != "" {
		db := intconfig.ConnectDB(env.DBDSN)
		defer intconfig.CloseDB()
		store = &session.MySQLStore{DB: db}
	}

	client := backend.NewClient(env.BackendBaseURL, middleware.BearerToken)
	checkout := gateway.NewHostedCheckout(client)

	notifier, err := notification.NewTelegram(env.TelegramBotToken, env.TelegramChatID)
	if err != nil {
		log.Fatalf("Telegram notifier: %v", err)
	}
	if notifier.Enabled() {
		log.Println("Telegram notifications enabled")
	}

	orch := payment.NewOrchestrator(client, checkout, payment.Flow(env.PaymentFlow))
	orch.Notifier = notifier

	r := api.NewRouter(&handlers.Handlers{
		Env:     env,
		Backend: client,
		Store:   store,
		Orch:    orch,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly.")
}
