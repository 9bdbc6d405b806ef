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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/ecommerce_catalog/internal/auth"
	"github.com/Skotchmaster/ecommerce_catalog/internal/config"
	"github.com/Skotchmaster/ecommerce_catalog/internal/events"
	"github.com/Skotchmaster/ecommerce_catalog/internal/handlers"
	"github.com/Skotchmaster/ecommerce_catalog/internal/logging"
	"github.com/Skotchmaster/ecommerce_catalog/internal/rating"
	httpserver "github.com/Skotchmaster/ecommerce_catalog/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(context.Background(), configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	producer := events.NewProducer([]string{configuration.KAFKA_ADDRESS})
	tokens := &auth.TokenService{Secret: []byte(configuration.JWT_SECRET)}
	aggregator := &rating.Aggregator{DB: db}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), logging.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:              db,
		Tokens:          tokens,
		AuthHandler:     &handlers.AuthHandler{DB: db, Tokens: tokens, Producer: producer},
		CategoryHandler: &handlers.CategoryHandler{DB: db, Producer: producer},
		ProductHandler:  &handlers.ProductHandler{DB: db, Producer: producer},
		ReviewHandler:   &handlers.ReviewHandler{DB: db, Aggregator: aggregator, Producer: producer},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.APP_PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "err", err)
		}
	} else {
		logger.Error("db() error", "err", err)
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "err", err)
	}

	logger.Info("shutdown complete")
}
