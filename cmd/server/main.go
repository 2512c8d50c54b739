package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"osmroute/internal/api"
	"osmroute/internal/config"
	"osmroute/internal/fetch"
	"osmroute/internal/orchestrator"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	fetcher := fetch.New(fetch.Config{
		Endpoint: cfg.UpstreamURL,
		Timeout:  cfg.UpstreamTimeout(),
	})
	orch := orchestrator.New(fetcher, log)

	handlers := api.NewHandlers(orch)
	srvCfg := api.DefaultConfig(fmt.Sprintf(":%d", *port))
	srvCfg.CORSOrigin = *corsOrigin
	srv := api.NewServer(srvCfg, handlers, log)

	if err := listenAndServe(srv, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// listenAndServe starts srv and blocks until a shutdown signal arrives,
// then drains in-flight requests before returning.
func listenAndServe(srv *http.Server, log *slog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case sig := <-stop:
		log.Info("received shutdown signal", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
