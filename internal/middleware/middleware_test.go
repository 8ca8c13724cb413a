package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmynk/pricewise/internal/auth"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi", ok: true},
		{header: "bearer abc", ok: false},
		{header: "Bearer", ok: false},
		{header: "Bearer ", ok: false},
		{header: "Basic dXNlcjpwYXNz", ok: false},
		{header: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := bearerToken(tt.header)
		if ok != tt.ok || got != tt.want {
			t.Errorf("bearerToken(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestWithClaims(t *testing.T) {
	ctx := WithClaims(context.Background(), &auth.Claims{UserID: "admin", Email: "owner@napoli.test", OrganizationID: "napoli"})

	if got := GetUserID(ctx); got != "admin" {
		t.Errorf("GetUserID: expected 'admin', got '%s'", got)
	}
	if got := GetEmail(ctx); got != "owner@napoli.test" {
		t.Errorf("GetEmail: expected 'owner@napoli.test', got '%s'", got)
	}
	if got := GetOrganizationID(ctx); got != "napoli" {
		t.Errorf("GetOrganizationID: expected 'napoli', got '%s'", got)
	}
	if got := GetOrganizationID(context.Background()); got != "" {
		t.Errorf("expected empty organization without claims, got '%s'", got)
	}
}

func TestCORS(t *testing.T) {
	called := false
	handler := CORS("https://shop.example", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	t.Run("preflight is answered directly", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/pricewise.v1.PricingService/PriceOrder", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if called {
			t.Error("preflight should not reach the next handler")
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example" {
			t.Errorf("unexpected allowed origin '%s'", got)
		}
	})

	t.Run("requests pass through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/pricewise.v1.PricingService/PriceOrder", nil))
		if !called {
			t.Error("expected next handler to be called")
		}
	})
}
