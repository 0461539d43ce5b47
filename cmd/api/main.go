package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/segurnet/claims-relay/config"
	deliverypg "github.com/segurnet/claims-relay/delivery/postgres"
	"github.com/segurnet/claims-relay/dispatch"
	"github.com/segurnet/claims-relay/endpoint"
	endpointpg "github.com/segurnet/claims-relay/endpoint/postgres"
	chihandlers "github.com/segurnet/claims-relay/internal/http/chi"
	"github.com/segurnet/claims-relay/metrics"
	"github.com/segurnet/claims-relay/storage"
	"github.com/segurnet/claims-relay/storage/rediscache"
	"github.com/segurnet/claims-relay/storage/supabase"
)

const TIMEOUT = 30 * time.Second

/* main é a porta de entrada e saída da aplicação: é aqui que as
 * dependências são construídas e amarradas, e os pacotes de negócio
 * são invocados. As importações vão em uma direção apenas: para baixo.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	logger := httplog.NewLogger("claims-relay", httplog.Options{JSON: true})

	endpointRepo, err := endpointpg.NewRepository(cfg.DatabaseURL)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer endpointRepo.Close(ctx)
	if err := endpointRepo.EnsureSchema(ctx); err != nil {
		fmt.Println(err)
		return
	}

	attemptRepo := deliverypg.NewRepository(endpointRepo.DB)
	if err := attemptRepo.EnsureSchema(ctx); err != nil {
		fmt.Println(err)
		return
	}

	registry := endpoint.NewService(endpointRepo)

	if cfg.WebhooksSeedFile != "" {
		inputs, err := endpoint.LoadSeedFile(cfg.WebhooksSeedFile)
		if err != nil {
			fmt.Println(err)
			return
		}
		if err := endpoint.Seed(ctx, registry, inputs); err != nil {
			fmt.Println(err)
			return
		}
	}

	exporter, err := metrics.NewOTelExporter()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer exporter.Shutdown(ctx)

	var signer storage.Signer = supabase.NewClient(cfg.StorageURL, cfg.StorageServiceKey, cfg.StorageBucket)
	if cfg.RedisAddr != "" {
		cache, err := rediscache.New(signer, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			fmt.Println(err)
			return
		}
		defer cache.Close(ctx)
		signer = cache
	}
	signer = storage.Instrument(signer, exporter)

	engine := dispatch.NewEngine(endpointRepo, attemptRepo, logger,
		dispatch.WithRecorder(exporter))

	r := chihandlers.Handlers(ctx, chihandlers.Deps{
		Endpoints:     registry,
		Attempts:      attemptRepo,
		Dispatcher:    engine,
		Prober:        dispatch.NewProber(nil),
		Signer:        signer,
		PublicBaseURL: cfg.PublicBaseURL,
		Metrics:       exporter.ServeHTTP(),
	})

	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	fmt.Printf("Listening on port %s\n", cfg.Port)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fmt.Println(err)
		return
	}
	err = <-errShutdown
	if err != nil {
		fmt.Println(err)
		return
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	default:
		errShutdown <- fmt.Errorf("forcing closing the server")
	}
}
