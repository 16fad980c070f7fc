package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bizquote/quotation-system/internal/core/domain"
)

const testSecret = "test-secret"

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	user, err := svc.Register(context.Background(), "alice", "s3cret", "alice@example.com", domain.RoleManager)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Role != domain.RoleManager {
		t.Errorf("role = %s, want manager", user.Role)
	}
	if !user.Active {
		t.Error("new users must start active")
	}
	if user.PasswordHash == "s3cret" {
		t.Error("password must be hashed")
	}

	token, logged, err := svc.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.Username != "alice" {
		t.Errorf("username = %s", logged.Username)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims["role"] != string(domain.RoleManager) {
		t.Errorf("token role = %v", claims["role"])
	}
	if claims["sub"] != user.ID {
		t.Errorf("token sub = %v, want %s", claims["sub"], user.ID)
	}
}

func TestAuthService_RejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)

	_, err := svc.Register(context.Background(), "bob", "pw", "", domain.Role("intern"))
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)
	if _, err := svc.Register(context.Background(), "alice", "right", "", domain.RoleUser); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_DeactivatedUserCannotLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)
	user, err := svc.Register(context.Background(), "alice", "pw", "", domain.RoleUser)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := svc.Deactivate(context.Background(), user.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "alice", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_DeactivateUnknownUser(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)

	if err := svc.Deactivate(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
