package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any login failure. The cause is
// deliberately not distinguished to avoid username probing.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminAuth issues and validates JWTs for the admin endpoints. A single
// operator credential is configured out of band; the password is only ever
// stored as a bcrypt hash.
type AdminAuth struct {
	jwtSecret    []byte
	user         string
	passwordHash string
	tokenTTL     time.Duration
}

// AdminClaims are the JWT claims carried by gateway admin tokens.
type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewAdminAuth builds the auth service from gateway configuration.
func NewAdminAuth(jwtSecret []byte, user, passwordHash string, tokenTTL time.Duration) *AdminAuth {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AdminAuth{
		jwtSecret:    jwtSecret,
		user:         user,
		passwordHash: passwordHash,
		tokenTTL:     tokenTTL,
	}
}

// Enabled reports whether an admin credential is configured.
func (a *AdminAuth) Enabled() bool {
	return a.passwordHash != ""
}

// Login verifies the credential and returns a signed token plus its lifetime
// in seconds.
func (a *AdminAuth) Login(username, password string) (string, int64, error) {
	if !a.Enabled() {
		return "", 0, ErrInvalidCredentials
	}

	// Run the hash comparison even on a username mismatch so both failure
	// paths take comparable time.
	err := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(password))
	if username != a.user || err != nil {
		return "", 0, ErrInvalidCredentials
	}

	now := time.Now()
	claims := &AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "tarn-gateway",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}

	return signed, int64(a.tokenTTL.Seconds()), nil
}

// ValidateToken parses and verifies a token, returning its claims.
func (a *AdminAuth) ValidateToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
