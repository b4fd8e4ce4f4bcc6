package main

import (
	"context"
	"io"
	"log"
	"net"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	"storefront/internal/repos"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN, cfg.SeedDemo)
	if err != nil {
		log.Fatal(err)
	}

	deps := handlers.NewDeps(db, cfg)
	app := handlers.NewApp(deps, cfg)

	ln, err := bind(cfg.Port)
	if err != nil {
		_ = db.Close()
		log.Fatalf("[http] listen: %v", err)
	}
	log.Printf("[http] listening on %s", ln.Addr())
	go func() {
		if err := app.Listener(ln); err != nil {
			_ = db.Close()
			log.Fatalf("[http] serve: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			// Operations run concurrently, so the store closes only after
			// in-flight requests drain.
			"http+db": func(ctx context.Context) error {
				if err := app.ShutdownWithContext(ctx); err != nil {
					log.Printf("[shutdown] http: %v", err)
				}
				return db.Close()
			},
		},
	)
	code := <-wait
	log.Printf("[shutdown] exit code %d", code)
	os.Exit(code)
}

// bind claims the port before serving so a taken or invalid port fails
// startup instead of leaving the process waiting on signals.
func bind(port string) (net.Listener, error) {
	return net.Listen("tcp", ":"+port)
}
