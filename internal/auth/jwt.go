package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/storeline/products/pkg/middleware"
)

// RoleAdmin is the role allowed to create products.
const RoleAdmin = "admin"

// UserID is a user id claim. Tokens carry it either as a JSON number or as a
// decimal string.
type UserID string

// UnmarshalJSON accepts numbers and strings.
func (u *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*u = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user_id must be a number or string: %w", err)
	}
	*u = UserID(n.String())
	return nil
}

// Claims are the access token claims this service reads.
type Claims struct {
	UserID UserID `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenValidator checks HS256 access tokens issued by the user service.
type TokenValidator struct {
	secret []byte
}

// NewTokenValidator creates a validator for tokens signed with secret.
func NewTokenValidator(secret string) *TokenValidator {
	return &TokenValidator{secret: []byte(secret)}
}

// Validate parses and verifies an access token. The user id comes from the
// user_id claim, falling back to the subject, and must be an integer.
func (v *TokenValidator) Validate(tokenString string) (*middleware.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid access token claims")
	}

	userID := string(claims.UserID)
	if userID == "" {
		userID = claims.Subject
	}
	if _, err := strconv.ParseInt(userID, 10, 64); err != nil {
		return nil, fmt.Errorf("access token user id %q is not an integer", userID)
	}

	return &middleware.Claims{UserID: userID, Role: claims.Role}, nil
}

// Issue signs an access token for userID. The user service owns token
// issuance; this exists for local tooling and tests.
func (v *TokenValidator) Issue(userID int64, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		UserID: UserID(strconv.FormatInt(userID, 10)),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}
