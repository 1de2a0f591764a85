package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/diewo77/quotes-app/internal/config"
	"github.com/diewo77/quotes-app/internal/db"
	"github.com/diewo77/quotes-app/internal/middleware"
	"github.com/diewo77/quotes-app/internal/server"
	"github.com/diewo77/quotes-app/view"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.ConnectAndMigrate()
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if *migrateOnly {
		log.Println("migrations applied, exiting")
		return
	}

	// Templates read lang/theme from the request context set by Prefs.
	view.SetLangResolver(middleware.LangFrom)
	view.SetThemeResolver(middleware.ThemeFrom)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(gormDB),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("bye")
}
