package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mkazak/authgate/internal/model"
)

// Claims represents JWT claims with token kind and user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Kind   string    `json:"typ"`
}

// JWT implements model.TokenSigner backed by symmetric HMAC. The secret is
// process-wide configuration; rotating it invalidates every outstanding
// token.
type JWT struct {
	secretKey string
}

// NewJWT creates a new JWT signer with the provided secret key.
func NewJWT(secretKey string) model.TokenSigner {
	return &JWT{secretKey: secretKey}
}

// Sign creates a signed token for the given subject, kind and expiry.
func (j *JWT) Sign(userID uuid.UUID, kind model.TokenKind, expiresAt time.Time) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
		Kind:   string(kind),
	}
	// Persisted kinds land in a table with a unique index on the token
	// string. A jti keeps two mints in the same second distinct.
	if kind.Persisted() {
		claims.ID = uuid.NewString()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return tokenString, nil
}

// Parse validates the signature and expiry of a token and returns its
// claims. It does not consult storage.
func (j *JWT) Parse(tokenString string) (model.TokenClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.TokenClaims{}, model.ErrTokenExpired
		}
		return model.TokenClaims{}, model.ErrTokenInvalid
	}
	if !token.Valid {
		return model.TokenClaims{}, model.ErrTokenInvalid
	}

	kind := model.TokenKind(claims.Kind)
	if !kind.Valid() {
		return model.TokenClaims{}, model.ErrTokenInvalid
	}

	parsed := model.TokenClaims{
		UserID: claims.UserID,
		Kind:   kind,
	}
	if claims.IssuedAt != nil {
		parsed.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		parsed.ExpiresAt = claims.ExpiresAt.Time
	}

	return parsed, nil
}
