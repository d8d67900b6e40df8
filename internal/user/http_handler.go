package user

import (
	"errors"
	"net/http"

	"shelf/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register handles POST /users/register
// @Summary Register a new user
// @Description Create a new user account
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterInput true "Registration request"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /users/register [post]
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterInput
	if !decode(w, r, &req) {
		return
	}

	u, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, u)
}

// Me handles GET /me
// @Summary Get current user
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /me [get]
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	u, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		// A valid token for a deleted account.
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
			return
		}
		writeErr(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, u, nil)
}

// UpdateMe handles PUT /me
// @Summary Replace the current user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body ProfileInput true "Profile"
// @Success 200 {object} httpx.SuccessResponse
// @Router /me [put]
func (h *HTTPHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var in ProfileInput
	if !decode(w, r, &in) {
		return
	}
	h.saveProfile(w, r, userID, in)
}

// PatchMe handles PATCH /me. Omitted fields keep their stored values.
func (h *HTTPHandler) PatchMe(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	u, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	in := u.Profile()
	if !decode(w, r, &in) {
		return
	}
	h.saveProfile(w, r, userID, in)
}

func (h *HTTPHandler) saveProfile(w http.ResponseWriter, r *http.Request, userID string, in ProfileInput) {
	u, err := h.service.UpdateProfile(r.Context(), userID, in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, u, nil)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return false
	}
	if details := httpx.ValidateStruct(dst); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return false
	}
	return true
}

func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "Email already exists", nil)
	case errors.Is(err, ErrUsernameTaken):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "Username already exists", nil)
	case errors.Is(err, ErrAlreadyExists):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "User already exists", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
