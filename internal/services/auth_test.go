package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/types"
)

func newTokenFixture(t *testing.T, ttl time.Duration) *authService {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return &authService{
		log:          log.With("service", "AuthService"),
		jwtSecretKey: "test-secret",
		accessTTL:    ttl,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	as := newTokenFixture(t, time.Hour)
	companyID := uuid.New()
	user := &types.User{ID: uuid.New(), Role: types.RoleCompany, CompanyID: &companyID}

	token, err := as.generateAccessToken(user)
	if err != nil {
		t.Fatalf("generateAccessToken: %v", err)
	}

	identity, err := as.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if identity.UserID != user.ID {
		t.Errorf("user id: want=%s got=%s", user.ID, identity.UserID)
	}
	if identity.Role != types.RoleCompany {
		t.Errorf("role: want=%s got=%s", types.RoleCompany, identity.Role)
	}
	if identity.CompanyID == nil || *identity.CompanyID != companyID {
		t.Errorf("company id: want=%s got=%v", companyID, identity.CompanyID)
	}
}

func TestTokenRoundTripWithoutCompany(t *testing.T) {
	as := newTokenFixture(t, time.Hour)
	user := &types.User{ID: uuid.New(), Role: types.RoleStudent}

	token, err := as.generateAccessToken(user)
	if err != nil {
		t.Fatalf("generateAccessToken: %v", err)
	}

	identity, err := as.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if identity.CompanyID != nil {
		t.Errorf("student should carry no company id, got %v", identity.CompanyID)
	}
}

// Self-registration may only create student or company accounts; an admin
// role in the payload must never reach the database.
func TestRegisterRejectsElevatedRoles(t *testing.T) {
	as := newTokenFixture(t, time.Hour)

	for _, role := range []types.Role{types.RoleAdmin, "superuser"} {
		user := &types.User{Email: "a@example.com", Password: "pw", Role: role}
		if err := as.Register(context.Background(), user); err == nil {
			t.Errorf("Register with role %q: expected rejection", role)
		}
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	as := newTokenFixture(t, time.Hour)

	for _, token := range []string{"", "   ", "not.a.jwt"} {
		if _, err := as.VerifyToken(token); err == nil {
			t.Errorf("VerifyToken(%q): expected error", token)
		}
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	signer := newTokenFixture(t, time.Hour)
	verifier := newTokenFixture(t, time.Hour)
	verifier.jwtSecretKey = "other-secret"

	token, err := signer.generateAccessToken(&types.User{ID: uuid.New(), Role: types.RoleStudent})
	if err != nil {
		t.Fatalf("generateAccessToken: %v", err)
	}
	if _, err := verifier.VerifyToken(token); err == nil {
		t.Fatalf("expected signature mismatch error")
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	as := newTokenFixture(t, -time.Minute)

	token, err := as.generateAccessToken(&types.User{ID: uuid.New(), Role: types.RoleStudent})
	if err != nil {
		t.Fatalf("generateAccessToken: %v", err)
	}
	if _, err := as.VerifyToken(token); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestVerifyTokenRejectsUnknownRole(t *testing.T) {
	as := newTokenFixture(t, time.Hour)

	claims := jwt.MapClaims{
		"sub":  uuid.New().String(),
		"role": "superuser",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := as.VerifyToken(token); err == nil {
		t.Fatalf("expected role rejection")
	}
}
