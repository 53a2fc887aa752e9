package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bravo68web/repodash/internal/config"
	apperror "github.com/bravo68web/repodash/pkg/errors"
)

func mint(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func TestJWTResolverAcceptsValidToken(t *testing.T) {
	t.Parallel()

	token := mint(t, "s3cret", JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			Issuer:    "idp",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		identityClaims: identityClaims{Email: "a@example.com", Name: "Ada"},
	})

	id, err := NewJWTResolver("s3cret", "idp").Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.Subject != "user-42" || id.Email != "a@example.com" || id.Name != "Ada" {
		t.Fatalf("identity = %+v", id)
	}
	if id.IsAnonymous() {
		t.Fatalf("token identity reported anonymous")
	}
}

func TestJWTResolverRejectsBadTokens(t *testing.T) {
	t.Parallel()

	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", mint(t, "other", jwt.RegisteredClaims{Subject: "u", Issuer: "idp", ExpiresAt: future})},
		{"expired", mint(t, "s3cret", jwt.RegisteredClaims{Subject: "u", Issuer: "idp", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))})},
		{"wrong issuer", mint(t, "s3cret", jwt.RegisteredClaims{Subject: "u", Issuer: "evil", ExpiresAt: future})},
		{"no subject", mint(t, "s3cret", jwt.RegisteredClaims{Issuer: "idp", ExpiresAt: future})},
	}

	resolver := NewJWTResolver("s3cret", "idp")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := resolver.Resolve(context.Background(), tt.token); !apperror.IsUnauthorized(err) {
				t.Fatalf("err = %v, want unauthorized", err)
			}
		})
	}
}

func TestNewIdentityResolverModes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	none, err := NewIdentityResolver(ctx, &config.AuthConfig{Mode: "none"})
	if err != nil {
		t.Fatalf("none: %v", err)
	}
	if none.Required() {
		t.Fatalf("none mode must not require a token")
	}
	id, _ := none.Resolve(ctx, "")
	if !id.IsAnonymous() {
		t.Fatalf("none mode identity = %+v", id)
	}

	j, err := NewIdentityResolver(ctx, &config.AuthConfig{Mode: "jwt", JWTSecret: "x"})
	if err != nil || !j.Required() {
		t.Fatalf("jwt resolver = %v, %v", j, err)
	}

	if _, err := NewIdentityResolver(ctx, &config.AuthConfig{Mode: "saml"}); err == nil {
		t.Fatalf("unknown mode accepted")
	}
}
