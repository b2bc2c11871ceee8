package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hospital-crm/internal/domain/entity"
	"hospital-crm/pkg/jwt"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type stubValidator struct {
	claims *jwt.Claims
	err    error
}

func (s stubValidator) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.claims, s.err
}

type stubSessions struct {
	active bool
	err    error
}

func (s stubSessions) IsActive(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	return s.active, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func accessClaims(role string, hospitalID *uuid.UUID) *jwt.Claims {
	return &jwt.Claims{
		UserID:     uuid.New(),
		Role:       role,
		HospitalID: hospitalID,
		TokenType:  jwt.AccessToken,
		TokenID:    uuid.NewString(),
	}
}

func TestAuthenticate(t *testing.T) {
	hospitalID := uuid.New()
	claims := accessClaims(entity.RoleHospitalAdmin, &hospitalID)
	refresh := accessClaims(entity.RoleHospitalAdmin, &hospitalID)
	refresh.TokenType = jwt.RefreshToken

	cases := []struct {
		name     string
		header   string
		mw       *AuthMiddleware
		wantCode int
	}{
		{"missing header", "", NewAuthMiddleware(stubValidator{claims: claims}, stubSessions{active: true}), http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", NewAuthMiddleware(stubValidator{claims: claims}, stubSessions{active: true}), http.StatusUnauthorized},
		{"invalid token", "Bearer abc", NewAuthMiddleware(stubValidator{err: errors.New("bad signature")}, stubSessions{active: true}), http.StatusUnauthorized},
		{"refresh token", "Bearer abc", NewAuthMiddleware(stubValidator{claims: refresh}, stubSessions{active: true}), http.StatusUnauthorized},
		{"revoked", "Bearer abc", NewAuthMiddleware(stubValidator{claims: claims}, stubSessions{active: false}), http.StatusUnauthorized},
		{"redis down", "Bearer abc", NewAuthMiddleware(stubValidator{claims: claims}, stubSessions{err: errors.New("timeout")}), http.StatusInternalServerError},
		{"ok", "Bearer abc", NewAuthMiddleware(stubValidator{claims: claims}, stubSessions{active: true}), http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			tc.mw.Authenticate(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Errorf("expected %d, got %d", tc.wantCode, rec.Code)
			}
		})
	}
}

func TestAuthenticate_StoresClaims(t *testing.T) {
	hospitalID := uuid.New()
	claims := accessClaims(entity.RoleDoctor, &hospitalID)
	mw := NewAuthMiddleware(stubValidator{claims: claims}, stubSessions{active: true})

	var gotRole string
	var gotHospital uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole, _ = GetRoleFromContext(r.Context())
		gotHospital, _ = GetHospitalIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	mw.Authenticate(next).ServeHTTP(httptest.NewRecorder(), req)

	if gotRole != entity.RoleDoctor || gotHospital != hospitalID {
		t.Errorf("claims not propagated: role=%q hospital=%s", gotRole, gotHospital)
	}
}

func TestRequireRole(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	RequireStaff(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without claims, got %d", rec.Code)
	}

	patient := WithClaims(context.Background(), accessClaims(entity.RolePatient, nil))
	rec = httptest.NewRecorder()
	RequireStaff(okHandler()).ServeHTTP(rec, req.WithContext(patient))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for patient, got %d", rec.Code)
	}

	nurse := WithClaims(context.Background(), accessClaims(entity.RoleNurse, nil))
	rec = httptest.NewRecorder()
	RequireStaff(okHandler()).ServeHTTP(rec, req.WithContext(nurse))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected nurse to pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	RequireHospitalAdmin(okHandler()).ServeHTTP(rec, req.WithContext(nurse))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for nurse on admin route, got %d", rec.Code)
	}
}

func TestCanAccessHospital(t *testing.T) {
	own := uuid.New()
	other := uuid.New()

	admin := WithClaims(context.Background(), accessClaims(entity.RoleHospitalAdmin, &own))
	if !CanAccessHospital(admin, own) {
		t.Error("admin should reach their own hospital")
	}
	if CanAccessHospital(admin, other) {
		t.Error("admin must not reach another hospital")
	}

	super := WithClaims(context.Background(), accessClaims(entity.RoleSuperAdmin, nil))
	if !CanAccessHospital(super, other) {
		t.Error("super admin should reach every hospital")
	}

	if CanAccessHospital(context.Background(), own) {
		t.Error("anonymous callers must not reach any hospital")
	}
}

func TestRequireHospitalAccess(t *testing.T) {
	own := uuid.New()
	ctx := WithClaims(context.Background(), accessClaims(entity.RoleHospitalAdmin, &own))

	cases := []struct {
		hospitalID string
		want       int
	}{
		{own.String(), http.StatusNoContent},
		{uuid.NewString(), http.StatusForbidden},
		{"not-a-uuid", http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
		req = mux.SetURLVars(req, map[string]string{"hospitalId": tc.hospitalID})
		rec := httptest.NewRecorder()
		RequireHospitalAccess(okHandler()).ServeHTTP(rec, req)

		if rec.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.hospitalID, tc.want, rec.Code)
		}
	}
}

func TestCORS(t *testing.T) {
	mw := NewCORSMiddleware([]string{"https://crm.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://crm.example.com")
	rec := httptest.NewRecorder()
	mw.Handle(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected preflight 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://crm.example.com" {
		t.Errorf("unexpected allow origin %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	mw.Handle(okHandler()).ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin should not be allowed, got %q", got)
	}
}
