package auth

import (
	"testing"
	"time"

	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/config"
)

func TestGenerateAndParseAccessToken(t *testing.T) {
	cfg := config.AuthConfig{
		Enabled:   true,
		JWTSecret: "test-secret",
		Issuer:    "location-voiture",
		Audience:  "rental-admin",
	}

	token, expiresAt, err := GenerateAccessToken(cfg, "acct-1", []string{"admin"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected expiry in the future, got %v", expiresAt)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != "acct-1" {
		t.Fatalf("expected subject acct-1, got %s", claims.Subject)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "admin" {
		t.Fatalf("expected roles [admin], got %v", claims.Roles)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: "secret-a", Issuer: "location-voiture"}
	token, _, err := GenerateAccessToken(cfg, "acct-1", nil, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	bad := config.AuthConfig{JWTSecret: "secret-b", Issuer: "location-voiture"}
	if _, err := ParseAccessToken(bad, token); err == nil {
		t.Fatalf("expected parse with wrong secret to fail")
	}
}

func TestGenerateAccessTokenValidation(t *testing.T) {
	if _, _, err := GenerateAccessToken(config.AuthConfig{JWTSecret: "s"}, "", nil, time.Hour); err == nil {
		t.Fatalf("expected empty subject to fail")
	}
	if _, _, err := GenerateAccessToken(config.AuthConfig{}, "acct-1", nil, time.Hour); err == nil {
		t.Fatalf("expected empty secret to fail")
	}
}
