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

	"gograph/adapters/sqlstore"
	"gograph/internal/config"
	"gograph/internal/container"
	"gograph/internal/ops"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
)

const janitorInterval = time.Minute

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sqlx.DB
	if appConfig.Database.Enabled() {
		db, err = sqlstore.Open(ctx, appConfig.Database.Driver, appConfig.Database.URL)
		if err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
	} else {
		log.Println("DATABASE_URL not set, saved graphs are disabled")
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown()
	if err := appContainer.InitWithDatabase(db); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	go appContainer.Server.RunJanitor(ctx, janitorInterval)

	apiServer := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           appContainer.Server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	opsServer := &http.Server{
		Addr:              ":" + appConfig.Ops.Port,
		Handler:           ops.NewRouter(appContainer.OpsConfig()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go serve("ops", opsServer)
	go serve("api", apiServer)
	log.Printf("🚀 Starting gograph API on port %s (ops on %s)", appConfig.Server.Port, appConfig.Ops.Port)

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown: %v", err)
	}
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("ops shutdown: %v", err)
	}
}

func serve(name string, srv *http.Server) {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("%s server failed: %v", name, err)
	}
}
