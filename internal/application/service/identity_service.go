package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"

	"github.com/bravo68web/repodash/internal/config"
	"github.com/bravo68web/repodash/internal/domain/models"
	"github.com/bravo68web/repodash/internal/domain/service"
	apperror "github.com/bravo68web/repodash/pkg/errors"
)

var (
	_ service.IdentityResolver = AnonymousResolver{}
	_ service.IdentityResolver = (*OIDCResolver)(nil)
	_ service.IdentityResolver = (*JWTResolver)(nil)
)

// NewIdentityResolver builds the resolver selected by auth.mode
func NewIdentityResolver(ctx context.Context, cfg *config.AuthConfig) (service.IdentityResolver, error) {
	switch strings.ToLower(cfg.Mode) {
	case "", "none":
		return AnonymousResolver{}, nil
	case "oidc":
		return NewOIDCResolver(ctx, cfg.IssuerURL, cfg.ClientID)
	case "jwt":
		return NewJWTResolver(cfg.JWTSecret, cfg.JWTIssuer), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode: %s", cfg.Mode)
	}
}

// AnonymousResolver accepts every request as the anonymous identity
type AnonymousResolver struct{}

func (AnonymousResolver) Resolve(context.Context, string) (*models.Identity, error) {
	return &models.Identity{Subject: models.AnonymousSubject}, nil
}

func (AnonymousResolver) Required() bool { return false }

// identityClaims are the claims read from either token kind
type identityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// OIDCResolver verifies ID tokens issued by an OpenID Connect provider
type OIDCResolver struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCResolver discovers the provider at issuerURL
func NewOIDCResolver(ctx context.Context, issuerURL, clientID string) (*OIDCResolver, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OIDC provider: %w", err)
	}
	return &OIDCResolver{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (r *OIDCResolver) Resolve(ctx context.Context, rawToken string) (*models.Identity, error) {
	token, err := r.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, apperror.Unauthorized("invalid token", apperror.ErrInvalidToken)
	}

	var claims identityClaims
	if err := token.Claims(&claims); err != nil {
		return nil, apperror.Unauthorized("invalid token claims", apperror.ErrInvalidToken)
	}

	return &models.Identity{Subject: token.Subject, Email: claims.Email, Name: claims.Name}, nil
}

func (r *OIDCResolver) Required() bool { return true }

// JWTClaims is the payload of an HMAC-signed bearer token
type JWTClaims struct {
	jwt.RegisteredClaims
	identityClaims
}

// JWTResolver verifies HMAC-signed tokens with a shared secret
type JWTResolver struct {
	secret []byte
	issuer string
}

// NewJWTResolver creates a resolver. An empty issuer is not checked.
func NewJWTResolver(secret, issuer string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret), issuer: issuer}
}

func (r *JWTResolver) Resolve(_ context.Context, rawToken string) (*models.Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if r.issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}

	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return r.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, apperror.Unauthorized("invalid token", apperror.ErrInvalidToken)
	}
	if claims.Subject == "" {
		return nil, apperror.Unauthorized("token has no subject", apperror.ErrInvalidToken)
	}

	return &models.Identity{Subject: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

func (r *JWTResolver) Required() bool { return true }
