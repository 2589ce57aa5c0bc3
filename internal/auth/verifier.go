package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bedtime-server/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// SessionClaims is the payload of a session token issued by the auth provider.
// The subject claim carries the user id.
type SessionClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Verifier turns a raw session token into a session.
type Verifier interface {
	Verify(ctx context.Context, token string) (*domain.Session, error)
}

// JWTVerifier проверяет HS256 session-токены.
type JWTVerifier struct {
	secret []byte
	logger *zap.Logger
}

var _ Verifier = (*JWTVerifier)(nil)

// NewJWTVerifier creates a verifier. A nil logger means no logging.
func NewJWTVerifier(secret string, logger *zap.Logger) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JWTVerifier{
		secret: []byte(secret),
		logger: logger.Named("JWTVerifier"),
	}, nil
}

// Verify checks signature and expiry and extracts the session user.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (*domain.Session, error) {
	log := v.logger.With(zap.String("tokenSnippet", tokenSnippet(tokenString)))
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			log.Warn("Unexpected signing method", zap.Any("alg", token.Header["alg"]))
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		log.Warn("Failed to parse or verify token", zap.Error(err))
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domain.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if !token.Valid {
		log.Warn("Token is invalid despite no parsing error")
		return nil, domain.ErrTokenInvalid
	}
	if claims.Subject == "" {
		log.Warn("Token missing subject")
		return nil, fmt.Errorf("%w: subject missing", domain.ErrTokenInvalid)
	}

	log.Debug("Token verified successfully", zap.String("userID", claims.Subject))
	return &domain.Session{User: domain.User{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	}}, nil
}

// SignSession issues a session token for user. Used by storyctl and tests;
// production tokens come from the auth provider.
func SignSession(secret string, user domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func tokenSnippet(tokenString string) string {
	const limit = 15
	if len(tokenString) > limit {
		return tokenString[:limit] + "..."
	}
	return tokenString
}
