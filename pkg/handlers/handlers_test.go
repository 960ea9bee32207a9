package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/physiome-tools/opbmap/pkg/handlers"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name   string
		status int
		data   any
	}{
		{
			name:   "200 with map",
			status: http.StatusOK,
			data:   map[string]string{"key": "value"},
		},
		{
			name:   "201 with struct",
			status: http.StatusCreated,
			data:   struct{ ID int }{ID: 42},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondJSON(rec, tt.status, tt.data)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.status {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.status)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %s", ct)
			}

			var decoded map[string]any
			if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
				t.Fatalf("body is not valid JSON: %v", err)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		err    error
	}{
		{
			name:   "client error",
			status: http.StatusNotFound,
			err:    errors.New("model not found"),
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			err:    errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondError(rec, testLogger(), tt.status, tt.err)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.status {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.status)
			}

			var body map[string]string
			if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] != tt.err.Error() {
				t.Errorf("error body: got %q, want %q", body["error"], tt.err.Error())
			}
		})
	}
}
