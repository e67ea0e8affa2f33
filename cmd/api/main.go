package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caretrack.org/internal/audit"
	"caretrack.org/internal/auth"
	"caretrack.org/internal/health"
	"caretrack.org/internal/httpapi"
	"caretrack.org/internal/obs"
	"caretrack.org/internal/store/memory"
	"caretrack.org/internal/store/pg"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	// The signing secret has no default. An empty value aborts startup so the
	// service can never run with unsigned or trivially-forgeable tokens.
	tokens, err := auth.NewTokenService(os.Getenv("CARETRACK_AUTH_SECRET"))
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	var (
		identityStore auth.IdentityStore
		healthStore   health.Store
		auditStore    audit.Store
		probe         httpapi.Pinger
		closeStore    func()
	)
	if dsn := os.Getenv("CARETRACK_PG_DSN"); dsn != "" {
		pgStore, err := pg.Open(dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		identityStore, healthStore, auditStore = pgStore, pgStore, pgStore
		probe = pgStore
		closeStore = func() { _ = pgStore.Close() }
	} else {
		log.Println("CARETRACK_PG_DSN not set, using in-memory store")
		mem := memory.New()
		identityStore, healthStore, auditStore = mem, mem, mem
		closeStore = func() {}
	}

	authSvc, err := auth.NewService(identityStore, tokens)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	healthSvc, err := health.NewService(healthStore)
	if err != nil {
		log.Fatalf("health service: %v", err)
	}
	auditor, err := audit.NewLogger(auditStore)
	if err != nil {
		log.Fatalf("audit logger: %v", err)
	}

	api := httpapi.New(authSvc, tokens, healthSvc, auditor, probe, version)

	addr := os.Getenv("CARETRACK_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting caretrack-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	closeStore()
	log.Println("Stopped")
}
