package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"intranet/internal/domain/auth"
	"intranet/internal/domain/staff"
)

func TestAuthMiddlewareSetsActor(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{
		EmployeeID: "emp-1",
		Username:   "jsoto",
		Level:      int(staff.LevelSubdireccion),
		Unit:       "Subdirección Médica",
	}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			t.Fatal("expected actor in context")
		}
		if actor.ID != "emp-1" || actor.Level != staff.LevelSubdireccion {
			t.Fatalf("unexpected actor: %+v", actor)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetActor(r.Context()); ok {
			t.Fatal("did not expect actor in context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
}

func TestRequireCapability(t *testing.T) {
	secret := "test-secret"
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Auth(secret)(RequireCapability(staff.CapAdjustBalances)(next))

	// Anonymous request.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rec.Code)
	}

	// Base staff lack the capability.
	token, err := auth.GenerateToken(secret, auth.Claims{EmployeeID: "emp-1", Level: int(staff.LevelFuncionario)}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("base staff status = %d, want 403", rec.Code)
	}

	// Sub-direction holds it.
	token, err = auth.GenerateToken(secret, auth.Claims{EmployeeID: "emp-2", Level: int(staff.LevelSubdireccion)}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("sub-direction status = %d, want 200", rec.Code)
	}
}
