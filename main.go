package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/exp/slog"

	"payments-sdk/config"
	"payments-sdk/handlers"
	"payments-sdk/middleware"
	"payments-sdk/services/gateways"
	"payments-sdk/services/hosted"
	"payments-sdk/services/payment"
	"payments-sdk/utils"
)

func main() {
	logger := slog.New(slog.HandlerOptions{Level: slog.LevelInfo}.NewJSONHandler(os.Stdout))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	server, err := config.LoadServer()
	if err != nil {
		return err
	}

	configs, err := config.Load(server.ConfigFile)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	container := payment.Default()
	for _, name := range names {
		if err := gateways.ConfigureContainer(container, configs[name], name, gateways.WithLogger(logger)); err != nil {
			return fmt.Errorf("configure %q: %w", name, err)
		}
	}

	router := mux.NewRouter()
	router.Use(middleware.CORS)
	router.Use(middleware.Logging(logger, 500*time.Millisecond))

	hostedCfg, ok := configs[server.ConfigName]
	if !ok {
		return fmt.Errorf("config %q is not defined", server.ConfigName)
	}
	if svc, err := hosted.NewService(hostedCfg, logger); err != nil {
		logger.Warn("hosted payment routes disabled", slog.String("config", server.ConfigName), slog.Any("err", err))
	} else {
		handlers.NewHostedPaymentHandler(container, svc, server, logger).Register(router)
	}

	startTime := time.Now()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		health := struct {
			Status         string   `json:"status"`
			Time           string   `json:"time"`
			Uptime         string   `json:"uptime"`
			GoVersion      string   `json:"go_version"`
			Configurations []string `json:"configurations"`
		}{
			Status:         "ok",
			Time:           time.Now().Format(time.RFC3339),
			Uptime:         time.Since(startTime).String(),
			GoVersion:      runtime.Version(),
			Configurations: names,
		}
		utils.WriteJSON(w, http.StatusOK, health)
	}).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:           ":" + server.Port,
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   90 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("port", server.Port), slog.Any("configs", names))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-stop:
	}
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
