package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"missionctl/internal/platform/config"
)

// Claims carries the session identity minted by the external identity system.
// The subject claim is the tenant id consumed by the tenant resolver.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type SessionService struct {
	config config.JWTConfig
}

func NewSessionService(cfg config.JWTConfig) *SessionService {
	return &SessionService{config: cfg}
}

// GenerateSessionToken mints a session token for the given tenant subject.
// Production tokens come from the identity provider sharing the HMAC secret;
// this is used by local tooling and tests.
func (s *SessionService) GenerateSessionToken(tenantID, email, name string, ttl time.Duration) (string, error) {
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tenantID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "missionctl",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *SessionService) ValidateSessionToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid session token")
}
