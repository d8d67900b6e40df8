package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"shelf/internal/platform/crypto"
)

// TestSecret signs tokens in handler and routing tests.
const TestSecret = "test-secret-key"

// TestUserID is a well-formed user id for authenticated test requests.
const TestUserID = "0b9e6a51-4f7c-4f0c-8b7a-2a1d9f3c6e01"

// GenerateTestToken generates an access token valid for an hour.
func GenerateTestToken(secret, userID string) string {
	token, _ := crypto.GenerateToken(secret, userID, crypto.TokenTypeAccess, time.Hour)
	return token
}

// GenerateRefreshToken generates a refresh token valid for an hour.
func GenerateRefreshToken(secret, userID string) string {
	token, _ := crypto.GenerateToken(secret, userID, crypto.TokenTypeRefresh, time.Hour)
	return token
}

// GenerateExpiredToken generates an access token that expired an hour ago.
func GenerateExpiredToken(secret, userID string) string {
	token, _ := crypto.GenerateToken(secret, userID, crypto.TokenTypeAccess, -time.Hour)
	return token
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body any) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithAuth creates a new HTTP request with a bearer token.
func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordResponse is a decoded response envelope.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

// RecordHTTPResponse decodes the recorded response body as JSON.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]any
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// ErrorCode returns error.code from an error envelope, or "".
func (r RecordResponse) ErrorCode() string {
	e, ok := r.Body["error"].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := e["code"].(string)
	return code
}
