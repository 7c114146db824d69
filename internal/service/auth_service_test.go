package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/fleet-maintenance/internal/auth"
	"github.com/spec-kit/fleet-maintenance/internal/domain"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hash, err := auth.HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := f.store.Users().Create(ctx, &domain.User{
		ID: "maint01", Name: "Mechanic", Role: domain.RoleMaintenance,
		PasswordHash: hash, Active: true,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := f.store.Users().Create(ctx, &domain.User{
		ID: "ghost01", Name: "Disabled", Role: domain.RoleMaintenance,
		PasswordHash: hash, Active: false,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	svc := NewAuthService(f.store.Users(), auth.NewTokenManager("test-secret", 60))

	result, err := svc.Login(ctx, "maint01", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" || result.User.ID != "maint01" {
		t.Errorf("result = %+v", result)
	}
	if time.Until(result.ExpiresAt) <= 0 {
		t.Error("token already expired")
	}

	tests := []struct {
		name       string
		employeeID string
		password   string
		code       string
	}{
		{"wrong password", "maint01", "nope", "UNAUTHORIZED"},
		{"unknown user", "nobody", "s3cret", "UNAUTHORIZED"},
		{"disabled account", "ghost01", "s3cret", "UNAUTHORIZED"},
		{"empty credentials", "", "", "VALIDATION_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.employeeID, tt.password)
			if got := errorCode(t, err); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}
