package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// doJSON performs a JSON request against the test app's router.
func doJSON(t *testing.T, app *testApp, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

// decodeEnvelope decodes a response body into an envelope with a typed
// data payload.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) Envelope {
	t.Helper()

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("failed to decode data payload: %v", err)
		}
	}
	return Envelope{Success: env.Success, Error: env.Error, Message: env.Message}
}

func TestRouter_NotFound(t *testing.T) {
	app := newTestApp()

	rec := doJSON(t, app, http.MethodGet, "/api/nonexistent", "", nil)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec, nil)
	if env.Success {
		t.Error("expected success=false")
	}
	if env.Error == "" {
		t.Error("expected error message")
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	app := newTestApp()

	rec := doJSON(t, app, http.MethodPatch, "/api/restaurants", "", nil)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec, nil)
	if env.Success {
		t.Error("expected success=false")
	}
}

func TestRouter_ErrorEnvelopeShape(t *testing.T) {
	app := newTestApp()

	rec := doJSON(t, app, http.MethodGet, "/api/restaurants/missing", "", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"success":false`) {
		t.Errorf("expected success:false in body: %s", body)
	}
	if strings.Contains(body, `"data"`) {
		t.Errorf("error responses must not carry data: %s", body)
	}
}
