package jwt

import (
	"testing"
	"time"

	"hospital-crm/config"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func sign(t *testing.T, secret string, claims Claims, method gojwt.SigningMethod) string {
	t.Helper()
	token, err := gojwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims() Claims {
	hospitalID := uuid.New()
	return Claims{
		UserID:     uuid.New(),
		Email:      "admin@example.com",
		Role:       "hospital_admin",
		HospitalID: &hospitalID,
		TokenType:  AccessToken,
		TokenID:    uuid.NewString(),
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  gojwt.NewNumericDate(time.Now()),
		},
	}
}

func TestValidateToken_RoundTripsClaims(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "secret"})
	want := validClaims()

	got, err := svc.ValidateToken(sign(t, "secret", want, gojwt.SigningMethodHS256))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != want.UserID || got.Role != want.Role || got.TokenID != want.TokenID {
		t.Errorf("claims mismatch: got %+v", got)
	}
	if got.HospitalID == nil || *got.HospitalID != *want.HospitalID {
		t.Errorf("hospital id mismatch: got %v", got.HospitalID)
	}
}

func TestValidateToken_RejectsWrongSecret(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "secret"})
	if _, err := svc.ValidateToken(sign(t, "other", validClaims(), gojwt.SigningMethodHS256)); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestValidateToken_RejectsExpired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "secret"})
	claims := validClaims()
	claims.ExpiresAt = gojwt.NewNumericDate(time.Now().Add(-time.Minute))
	if _, err := svc.ValidateToken(sign(t, "secret", claims, gojwt.SigningMethodHS256)); err == nil {
		t.Error("expected error for expired token")
	}
}
