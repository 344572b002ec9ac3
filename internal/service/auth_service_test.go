package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/eduscope/eduscope-backend/internal/config"
	"github.com/eduscope/eduscope-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4,
	}
	return NewAuthService(cfg, rdb, nil)
}

func testUser() *model.User {
	return &model.User{ID: 42, Name: "Ada", Email: "ada@example.com", Role: model.RoleTeacher}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	token, err := svc.issueToken(ctx, testUser())
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "ada@example.com" || claims.Role != model.RoleTeacher {
		t.Errorf("claims = %+v", claims)
	}
	if err := svc.ValidateSession(ctx, claims.UserID, claims.ID); err != nil {
		t.Errorf("ValidateSession: %v", err)
	}
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	svc := newAuthFixture(t)

	token, err := svc.issueToken(context.Background(), testUser())
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	if _, err := svc.ValidateToken(token + "x"); err == nil {
		t.Error("tampered token validated")
	}
	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Error("garbage token validated")
	}
}

func TestLoginRotationInvalidatesOldSession(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()
	user := testUser()

	first, err := svc.issueToken(ctx, user)
	if err != nil {
		t.Fatalf("first issueToken: %v", err)
	}
	if _, err := svc.issueToken(ctx, user); err != nil {
		t.Fatalf("second issueToken: %v", err)
	}

	claims, err := svc.ValidateToken(first)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	// Still a valid signature, but the session moved on.
	if err := svc.ValidateSession(ctx, claims.UserID, claims.ID); !errors.Is(err, ErrSessionInvalidated) {
		t.Errorf("old session err = %v, want ErrSessionInvalidated", err)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()
	user := testUser()

	token, err := svc.issueToken(ctx, user)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	if err := svc.Logout(ctx, user.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if err := svc.ValidateSession(ctx, claims.UserID, claims.ID); !errors.Is(err, ErrSessionInvalidated) {
		t.Errorf("err = %v, want ErrSessionInvalidated", err)
	}
}
