package handlers_integrated_test_suite

import (
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	handler "github.com/rogerio-castellano/bizmanage/internal/http/handlers"
	mw "github.com/rogerio-castellano/bizmanage/internal/http/middleware"
	rl "github.com/rogerio-castellano/bizmanage/internal/http/rate_limiter"
	"github.com/rogerio-castellano/bizmanage/internal/http/router"
)

func TestAuthFlow(t *testing.T) {
	r := router.NewRouter()

	t.Run("Login with valid credentials", func(t *testing.T) {
		w := call(r, "", http.MethodPost, "/api/login", handler.CredentialsRequest{Username: "admin", Password: "secret"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		resp, err := decode[handler.LoginResult](w)
		if err != nil {
			t.Fatalf("failed to decode token response: %v", err)
		}
		if resp.Token == "" {
			t.Error("expected access token in response")
		}
		if resp.RefreshToken == "" {
			t.Error("expected refresh token in response")
		}
		if resp.User.Username != "admin" {
			t.Errorf("expected admin user, got %q", resp.User.Username)
		}
	})

	t.Run("Login with wrong password", func(t *testing.T) {
		w := call(r, "", http.MethodPost, "/api/login", handler.CredentialsRequest{Username: "admin", Password: "wrong"})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 Unauthorized, got %d", w.Code)
		}
	})

	t.Run("Protected route without token is rejected", func(t *testing.T) {
		w := call(r, "", http.MethodGet, "/api/products", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 Unauthorized, got %d", w.Code)
		}
	})

	t.Run("Register then refresh", func(t *testing.T) {
		w := call(r, "", http.MethodPost, "/api/register", handler.RegisterRequest{
			Username: "frank", Password: "s3cret!", FullName: "Frank", Email: "frank@example.com",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
		}
		registered, _ := decode[handler.RegisterResult](w)

		w = call(r, "", http.MethodPost, "/api/register", handler.RegisterRequest{
			Username: "frank2", Password: "s3cret!", FullName: "Frank", Email: "frank@example.com",
		})
		if w.Code != http.StatusConflict {
			t.Errorf("expected 409 for duplicated email, got %d", w.Code)
		}

		w = call(r, "", http.MethodPost, "/api/refresh", handler.RefreshRequest{RefreshToken: registered.RefreshToken})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 on refresh, got %d", w.Code)
		}
	})

	t.Run("Admin only route with user role", func(t *testing.T) {
		userToken, err := userRoleToken(r, "plainuser")
		if err != nil {
			t.Fatalf("could not get user token: %v", err)
		}
		w := call(r, userToken, http.MethodGet, "/api/users", nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403 Forbidden, got %d", w.Code)
		}
	})
}

func TestRateLimitedRouter(t *testing.T) {
	limiter := mw.NewRateLimiter(rl.NewVisitors(0.001, 3), nil, zerolog.Nop())
	r := router.NewRouter(router.WithRateLimiter(limiter))

	for i := 0; i < 3; i++ {
		w := call(r, token, http.MethodGet, "/api/branches", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 OK, got %d", i+1, w.Code)
		}
	}

	w := call(r, token, http.MethodGet, "/api/branches", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 once the burst is spent, got %d", w.Code)
	}

	w = call(r, "", http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected /health outside the limiter, got %d", w.Code)
	}
}
