package utils

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// TokenTTL is how long an issued token stays valid
const TokenTTL = 24 * time.Hour

// Claims carried by every access token
type Claims struct {
	UserID               uint   `json:"user_id"` // Identity ID
	Role                 string `json:"role"`    // Canonical role label
	RoleID               int    `json:"role_id"` // Legacy numeric role id
	jwt.RegisteredClaims        // Standard JWT claims
}

// GenerateJWT creates a signed token for an identity and its role
func GenerateJWT(userID uint, role string, roleID int, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:           userID, // Identity ID
		Role:             role,   // Role label
		RoleID:           roleID, // Role id
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),               // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
