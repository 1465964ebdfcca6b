package jwt

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies the access tokens issued by the HRIS backend, which signs
// them with the same shared secret.
type Service interface {
	GenerateAccessToken(userID string, role auth.Role, isAdmin bool, ttl time.Duration) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// GenerateAccessToken issues a token with the claims the payroll routes check.
// It is used by tests and internal tooling.
func (j *JWTService) GenerateAccessToken(userID string, role auth.Role, isAdmin bool, ttl time.Duration) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(ttl).Unix()

	claims := map[string]interface{}{
		"user_id":  userID,
		"role":     string(role),
		"is_admin": isAdmin,
		"type":     "access",
		"exp":      expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}
