package book

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"shelf/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /books
// @Summary List books
// @Tags books
// @Produce json
// @Param q query string false "Title or author substring"
// @Param genre query string false "Exact genre tag"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Success 200 {object} httpx.SuccessResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	books, total, err := h.service.List(r.Context(), Query{
		Q:      query.Get("q"),
		Genre:  query.Get("genre"),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

// Get handles GET /books/{id}
// @Summary Retrieve a book
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Create handles POST /books
// @Summary Create a book
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body Input true "Book"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if !decodeInput(w, r, &in) {
		return
	}

	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, b)
}

// Update handles PUT /books/{id}
// @Summary Replace a book
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Book ID"
// @Param request body Input true "Book"
// @Success 200 {object} httpx.SuccessResponse
// @Router /books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	var in Input
	if !decodeInput(w, r, &in) {
		return
	}

	b, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Patch handles PATCH /books/{id}. Fields missing from the body keep their
// stored values; an explicit null clears a nullable field.
// @Summary Partially update a book
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Router /books/{id} [patch]
func (h *HTTPHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	existing, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	in := existing.Input()
	if !decodeInput(w, r, &in) {
		return
	}

	b, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /books/{id}
// @Summary Delete a book
// @Tags books
// @Security Bearer
// @Param id path string true "Book ID"
// @Success 204 "No Content"
// @Router /books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

func bookID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		return "", false
	}
	return id, true
}

func decodeInput(w http.ResponseWriter, r *http.Request, in *Input) bool {
	if err := httpx.DecodeJSON(r, in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return false
	}
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return false
	}
	return true
}

func (h *HTTPHandler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrConflict):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "A book with this ISBN already exists", nil)
	case errors.Is(err, ErrInvalid):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
