package httpx

import (
	"encoding/json"
	"net/http"
)

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Meta    any  `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   ErrorResponseBody `json:"error"`
	Meta    any               `json:"meta,omitempty"`
}

type ErrorResponseBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// buildMeta merges the request id with handler supplied metadata.
func buildMeta(r *http.Request, customMeta map[string]any) map[string]any {
	requestID := RequestIDFrom(r)
	if requestID == "" && len(customMeta) == 0 {
		return nil
	}
	meta := make(map[string]any, len(customMeta)+1)
	for k, v := range customMeta {
		meta[k] = v
	}
	if requestID != "" {
		meta["request_id"] = requestID
	}
	return meta
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func JSONSuccess(w http.ResponseWriter, r *http.Request, data any, meta map[string]any) {
	resp := SuccessResponse{Success: true, Data: data}
	if m := buildMeta(r, meta); m != nil {
		resp.Meta = m
	}
	writeJSON(w, http.StatusOK, resp)
}

func JSONCreated(w http.ResponseWriter, r *http.Request, data any) {
	resp := SuccessResponse{Success: true, Data: data}
	if m := buildMeta(r, nil); m != nil {
		resp.Meta = m
	}
	writeJSON(w, http.StatusCreated, resp)
}

func JSONNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, code string, message string, details []ErrorDetail) {
	resp := ErrorResponse{
		Success: false,
		Error: ErrorResponseBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	if m := buildMeta(r, nil); m != nil {
		resp.Meta = m
	}
	writeJSON(w, statusCode, resp)
}

// DecodeJSON reads a JSON request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
