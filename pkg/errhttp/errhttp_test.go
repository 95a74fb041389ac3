package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	basketdomain "github.com/ghuser/basketctx/services/basket/domain"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrBasketNotFound", basketdomain.ErrBasketNotFound, http.StatusNotFound},
		{"ErrCouponNotFound", basketdomain.ErrCouponNotFound, http.StatusNotFound},
		{"ErrBasketAlreadyExists", basketdomain.ErrBasketAlreadyExists, http.StatusConflict},
		{"ErrValidation", basketdomain.ErrValidation, http.StatusUnprocessableEntity},
		{"wrapped ErrBasketNotFound", fmt.Errorf("get basket: %w", basketdomain.ErrBasketNotFound), http.StatusNotFound},
		{"Validationf error", basketdomain.Validationf("count must be greater than 1"), http.StatusUnprocessableEntity},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestWriteError_JSONBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, basketdomain.ErrBasketNotFound)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Fatal("response body missing 'error' key")
	}
}

func TestWriteError_ContentType(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, basketdomain.ErrBasketNotFound)

	ct := w.Header().Get("Content-Type")
	if ct == "" {
		t.Fatal("Content-Type header not set")
	}
}
