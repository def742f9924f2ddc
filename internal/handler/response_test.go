package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chillgc/tierlist/internal/apperror"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"validation", apperror.ValidationFailed("tier", "invalid tier"), http.StatusBadRequest, "validation_error"},
		{"unauthenticated", apperror.Unauthenticated("login required"), http.StatusUnauthorized, "unauthenticated"},
		{"self rank", apperror.SelfRank(), http.StatusForbidden, "self_rank_forbidden"},
		{"forbidden", apperror.Forbidden("admin access required"), http.StatusForbidden, "forbidden"},
		{"not found", apperror.NotFound("person", "7"), http.StatusNotFound, "not_found"},
		{"exchange failure", apperror.AuthExchange(errors.New("boom")), http.StatusBadGateway, "identity_provider_error"},
		{"profile failure", apperror.ProfileFetch(errors.New("boom")), http.StatusBadGateway, "identity_provider_error"},
		{"persistence", apperror.Persistence("writing", errors.New("disk full")), http.StatusInternalServerError, "internal_error"},
		{"unknown", errors.New("anything else"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if resp.Error != tt.wantType {
				t.Errorf("error type = %q, want %q", resp.Error, tt.wantType)
			}
			if resp.Message == "" {
				t.Error("message should never be empty")
			}
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, apperror.Persistence("upserting ranking", errors.New("UNIQUE constraint failed")))

	if strings.Contains(rec.Body.String(), "UNIQUE constraint") {
		t.Error("storage detail leaked into the response body")
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"Bob"}`, false},
		{"malformed", `{"name":`, true},
		{"unknown field", `{"name":"Bob","extra":1}`, true},
		{"trailing data", `{"name":"Bob"}{"name":"Eve"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload

			err := decodeJSON(r, &dst)
			if tt.wantErr {
				if !errors.Is(err, apperror.ErrValidation) {
					t.Errorf("decodeJSON() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeJSON() error = %v", err)
			}
			if dst.Name != "Bob" {
				t.Errorf("Name = %q, want %q", dst.Name, "Bob")
			}
		})
	}
}
