package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/PhumPatananiti/schooldesk/internal/config"
	"github.com/PhumPatananiti/schooldesk/internal/gateway"
	dashhttp "github.com/PhumPatananiti/schooldesk/internal/http"
	"github.com/PhumPatananiti/schooldesk/internal/registration"
	"github.com/PhumPatananiti/schooldesk/internal/schoolapi"
	"github.com/PhumPatananiti/schooldesk/internal/session"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}

	gw := gateway.New(cfg.APIBaseURL, cfg.RequestTimeout)
	manager := session.NewManager(store, gw)

	// Restore the saved session before serving a single request so
	// the first navigation after a restart already sees it.
	if err := manager.Rehydrate(ctx); err != nil {
		log.Printf("rehydrate: %v (starting anonymous)", err)
	} else {
		log.Printf("session state: %s", manager.State())
	}

	flow := registration.NewFlow(gw, cfg.OTPTTL)
	apiClient := schoolapi.New(cfg.APIBaseURL, cfg.RequestTimeout, manager)
	srv := dashhttp.NewServer(cfg, manager, flow, apiClient)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("dashboard listening on %s (api %s)", cfg.HTTPAddr, cfg.APIBaseURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func newStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	if cfg.RedisAddr == "" {
		return session.NewFileStore(cfg.SessionFile), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}
	return session.NewRedisStore(client, cfg.RedisKey), nil
}
