package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims represents the JWT claims for an authenticated session
type UserClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTUtil issues and validates HS256 session tokens
type JWTUtil struct {
	signingKey []byte
	expiration time.Duration
	now        func() time.Time
}

// NewJWTUtil creates a JWT utility signing with key and issuing tokens that
// expire after the given number of hours.
func NewJWTUtil(signingKey string, expirationHours int) *JWTUtil {
	return &JWTUtil{
		signingKey: []byte(signingKey),
		expiration: time.Duration(expirationHours) * time.Hour,
		now:        time.Now,
	}
}

// GenerateToken creates a signed token carrying the user id and role
func (j *JWTUtil) GenerateToken(userID, role string) (string, error) {
	if len(j.signingKey) == 0 {
		return "", errors.New("JWT signing key not configured")
	}

	now := j.now()
	claims := UserClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.signingKey)
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return j.signingKey, nil
		},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
