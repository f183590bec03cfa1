// ABOUTME: JWT session tokens for authenticating API requests
// ABOUTME: HS256 with typed claims; sub carries the user name, uid the user ID

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
)

// tokenIssuer is written to and required in the "iss" claim.
const tokenIssuer = "benotes"

// TokenVerifier turns a bearer token into the caller's identity.
type TokenVerifier interface {
	Verify(tokenString string) (*Identity, error)
}

// sessionClaims is the payload of a benotes session token. Subject is the
// user name, which is also the tenant ID.
type sessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// JWTIssuer issues and verifies session tokens with a shared HMAC secret.
type JWTIssuer struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTIssuer creates an issuer for the given secret.
func NewJWTIssuer(secret []byte) *JWTIssuer {
	return &JWTIssuer{
		secret: secret,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(tokenIssuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

// Verify checks the signature, issuer and expiry, then returns the identity
// carried by the token.
func (v *JWTIssuer) Verify(tokenString string) (*Identity, error) {
	var claims sessionClaims
	_, err := v.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: uid", ErrMissingClaim)
	}

	return &Identity{UserID: claims.UserID, Name: claims.Subject}, nil
}

// Generate signs a token for id that expires after ttl.
func (v *JWTIssuer) Generate(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID: id.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   id.Name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
