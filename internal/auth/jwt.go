package auth

import (
	"strings"

	"review-service/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// User is the authenticated identity a session belongs to.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// AuthError distinguishes authentication failures from store
// failures so callers can offer the right retry path.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return "authentication failed: " + e.Reason + ": " + e.Err.Error()
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidateJWT parses and verifies a token against the configured
// secret.
func ValidateJWT(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, &AuthError{Reason: "token is required"}
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, &AuthError{Reason: "invalid token", Err: err}
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, &AuthError{Reason: "invalid token"}
}

// CurrentUser extracts the authenticated user from the request's
// bearer token.
func CurrentUser(c *gin.Context) (*User, error) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		return nil, &AuthError{Reason: "no credentials"}
	}
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return nil, err
	}

	userID := claims.UserID
	// Clean up ObjectID string format if present
	if strings.HasPrefix(userID, "ObjectID(\"") && strings.HasSuffix(userID, "\")") {
		userID = userID[10 : len(userID)-2]
	}
	if userID == "" {
		return nil, &AuthError{Reason: "token carries no user id"}
	}

	return &User{ID: userID, Email: claims.Email}, nil
}
