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

	"github.com/mercatus/webstore/internal/config"
	"github.com/mercatus/webstore/internal/db"
	"github.com/mercatus/webstore/internal/es"
	"github.com/mercatus/webstore/internal/handlers"
	"github.com/mercatus/webstore/internal/logging"
	authmw "github.com/mercatus/webstore/internal/middleware/auth"
	loggingmw "github.com/mercatus/webstore/internal/middleware/logging"
	"github.com/mercatus/webstore/internal/mykafka"
	"github.com/mercatus/webstore/internal/repo"
	httpserver "github.com/mercatus/webstore/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(configuration.JWT_SECRET, "JWT_SECRET")

	logger := logging.New(configuration.LOG_LEVEL)

	database, err := db.Open(context.Background(), configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	prod, err := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	if err != nil {
		log.Fatal(err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	r := &repo.GormRepo{DB: database}

	deps := httpserver.Deps{
		DB:              database,
		Auth:            authmw.NewMiddleware(r, jwtSecret),
		AuthHandler:     &handlers.AuthHandler{Repo: r, Producer: prod, JWTSecret: jwtSecret, TokenTTL: configuration.TokenTTL()},
		CustomerHandler: &handlers.CustomerHandler{Repo: r, Producer: prod},
		ProductHandler:  &handlers.ProductHandler{Repo: r, Producer: prod, ES: esClient, Index: "products"},
		OrderHandler:    &handlers.OrderHandler{Repo: r, Producer: prod},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: "products"},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.Addr(),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
