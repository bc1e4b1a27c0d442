package services

import (
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/darekanikki/diary-backend/internal/pkg/logger"
)

const adminSubject = "admin"

// AdminSessionCookie is the cookie carrying the signed admin session.
const AdminSessionCookie = "admin_session"

// AuthService checks the admin credential and manages the signed session
// cookie used by the HTML admin pages. The API side presents the token
// directly on every request; the session exists so the browser flow only
// asks for the token once.
type AuthService interface {
	Enabled() bool
	VerifyToken(token string) bool
	IssueSession() (string, error)
	VerifySession(tokenString string) bool
	SessionTTL() time.Duration
}

type authService struct {
	log            *logger.Logger
	adminToken     string
	adminTokenHash string
	sessionSecret  string
	sessionTTL     time.Duration
}

func NewAuthService(
	baseLog *logger.Logger,
	adminToken string,
	adminTokenHash string,
	sessionSecret string,
	sessionTTL time.Duration,
) AuthService {
	serviceLog := baseLog.With("service", "AuthService")
	if sessionSecret == "" {
		sessionSecret = adminToken
	}
	return &authService{
		log:            serviceLog,
		adminToken:     adminToken,
		adminTokenHash: adminTokenHash,
		sessionSecret:  sessionSecret,
		sessionTTL:     sessionTTL,
	}
}

// Enabled reports whether any admin credential is configured.
func (as *authService) Enabled() bool {
	return as.adminToken != "" || as.adminTokenHash != ""
}

// VerifyToken checks a presented token against the configured credential.
// When a bcrypt hash is configured it takes precedence over the plain token.
func (as *authService) VerifyToken(token string) bool {
	if token == "" || !as.Enabled() {
		return false
	}
	if as.adminTokenHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(as.adminTokenHash), []byte(token)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(as.adminToken), []byte(token)) == 1
}

func (as *authService) IssueSession() (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.sessionTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.sessionSecret))
}

func (as *authService) VerifySession(tokenString string) bool {
	if tokenString == "" || !as.Enabled() {
		return false
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.sessionSecret), nil
	})
	if err != nil {
		return false
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return false
	}
	return claims.Subject == adminSubject
}

func (as *authService) SessionTTL() time.Duration {
	return as.sessionTTL
}
