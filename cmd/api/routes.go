package main

import (
	"context"
	"net/http"
	"time"

	"shelf/internal/auth"
	"shelf/internal/book"
	"shelf/internal/httpx"
	"shelf/internal/readinglog"
	"shelf/internal/user"
)

type handlers struct {
	books *book.HTTPHandler
	logs  *readinglog.HTTPHandler
	users *user.HTTPHandler
	auth  *auth.HTTPHandler
}

// newRouter registers every route. Catalog reads and account creation are
// public; everything else needs an access token.
func newRouter(jwtSecret string, h handlers, ready func(context.Context) error) *http.ServeMux {
	router := http.NewServeMux()
	protect := httpx.AuthMiddleware(jwtSecret)
	private := func(fn http.HandlerFunc) http.Handler { return protect(fn) }

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /books", h.books.List)
	router.HandleFunc("GET /books/{id}", h.books.Get)
	router.Handle("POST /books", private(h.books.Create))
	router.Handle("PUT /books/{id}", private(h.books.Update))
	router.Handle("PATCH /books/{id}", private(h.books.Patch))
	router.Handle("DELETE /books/{id}", private(h.books.Delete))

	router.Handle("GET /logs", private(h.logs.List))
	router.Handle("POST /logs", private(h.logs.Create))
	router.Handle("GET /logs/{id}", private(h.logs.Get))
	router.Handle("PUT /logs/{id}", private(h.logs.Update))
	router.Handle("PATCH /logs/{id}", private(h.logs.Patch))
	router.Handle("DELETE /logs/{id}", private(h.logs.Delete))

	router.HandleFunc("POST /users/register", h.users.Register)
	router.HandleFunc("POST /auth/token", h.auth.Login)
	router.HandleFunc("POST /auth/token/refresh", h.auth.Refresh)

	router.Handle("GET /me", private(h.users.Me))
	router.Handle("PUT /me", private(h.users.UpdateMe))
	router.Handle("PATCH /me", private(h.users.PatchMe))

	return router
}
