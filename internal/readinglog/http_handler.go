package readinglog

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"shelf/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /logs
// @Summary List the current user's reading logs
// @Tags logs
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Router /logs [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	logs, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, logs, map[string]any{"count": len(logs)})
}

// Get handles GET /logs/{id}
// @Summary Retrieve a reading log
// @Tags logs
// @Produce json
// @Security Bearer
// @Param id path string true "Log ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /logs/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := logRef(w, r)
	if !ok {
		return
	}

	l, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, l, nil)
}

// Create handles POST /logs
// @Summary Start a reading log
// @Tags logs
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body Input true "Reading log"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /logs [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var in Input
	if !decodeInput(w, r, &in) {
		return
	}

	l, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, l)
}

// Update handles PUT /logs/{id}
// @Summary Replace a reading log
// @Tags logs
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Log ID"
// @Param request body Input true "Reading log"
// @Success 200 {object} httpx.SuccessResponse
// @Router /logs/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := logRef(w, r)
	if !ok {
		return
	}

	var in Input
	if !decodeInput(w, r, &in) {
		return
	}

	l, err := h.service.Update(r.Context(), userID, id, in)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, l, nil)
}

// Patch handles PATCH /logs/{id}. Omitted fields keep their stored values.
func (h *HTTPHandler) Patch(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := logRef(w, r)
	if !ok {
		return
	}

	existing, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	in := existing.Input()
	if !decodeInput(w, r, &in) {
		return
	}

	l, err := h.service.Update(r.Context(), userID, id, in)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, l, nil)
}

// Delete handles DELETE /logs/{id}
// @Summary Delete a reading log
// @Tags logs
// @Security Bearer
// @Param id path string true "Log ID"
// @Success 204 "No Content"
// @Router /logs/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := logRef(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.writeErr(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication credentials were not provided", nil)
		return "", false
	}
	return userID, true
}

func logRef(w http.ResponseWriter, r *http.Request) (userID, id string, ok bool) {
	if userID, ok = currentUser(w, r); !ok {
		return "", "", false
	}
	id = r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Reading log not found", nil)
		return "", "", false
	}
	return userID, id, true
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
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Reading log not found", nil)
	case errors.Is(err, ErrUnknownBook):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input",
			[]httpx.ErrorDetail{{Field: "book", Message: "book does not exist"}})
	case errors.Is(err, ErrInvalidStatus):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input",
			[]httpx.ErrorDetail{{Field: "status", Message: err.Error()}})
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
