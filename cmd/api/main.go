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

	"shelf/internal/auth"
	"shelf/internal/book"
	"shelf/internal/config"
	"shelf/internal/httpx"
	"shelf/internal/platform/postgres"
	"shelf/internal/readinglog"
	"shelf/internal/user"
)

func main() {
	config.LoadEnvFiles()
	cfg := config.New()
	if cfg.JWTSecret == "" {
		log.Fatalf("missing required environment variable: JWT_SECRET")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := postgres.Open(ctx, cfg.DSN)
	if err != nil {
		log.Fatalf("cannot open database (%s): %v", config.RedactDSN(cfg.DSN), err)
	}
	defer dbPool.Close()
	log.Println("database connection OK")

	bookService := book.NewService(book.NewPostgresRepo(dbPool, cfg.Database.Timeout))
	userService := user.NewService(user.NewPostgresRepo(dbPool, cfg.Database.Timeout))
	logService := readinglog.NewService(readinglog.NewPostgresRepo(dbPool, cfg.Database.Timeout), bookService)
	authService := auth.NewService(userService, auth.Config{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})

	router := newRouter(cfg.JWTSecret, handlers{
		books: book.NewHTTPHandler(bookService),
		logs:  readinglog.NewHTTPHandler(logService),
		users: user.NewHTTPHandler(userService),
		auth:  auth.NewHTTPHandler(authService),
	}, dbPool.Ping)

	rateLimiter := httpx.NewRateLimitMiddleware(cfg.RPS, cfg.Burst)
	go rateLimiter.Cleanup(ctx)

	handler := httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware,
		httpx.CORSMiddleware(cfg.AllowedOrigins),
		rateLimiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("Starting server on %s", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	log.Println("server stopped")
}
