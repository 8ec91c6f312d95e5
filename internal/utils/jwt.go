package utils // package utils provides helpers for the instructor session token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// RoleInstructor is the only role a session token is issued for.
const RoleInstructor = "INSTRUCTOR"

// ErrInvalidToken is returned for tokens that are malformed, expired, signed
// with another key or missing required claims.
var ErrInvalidToken = errors.New("invalid session token")

// SessionToken is a signed instructor session along with its expiry.  The
// Token is stored in an HttpOnly cookie; Exp becomes the cookie expiry.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// SessionClaims are the values carried by a verified session token.
type SessionClaims struct {
	InstructorID int64
	Name         string
	Role         string
}

// NewSessionToken builds and signs an HS256 JWT for an instructor.  The
// token carries the instructor id as subject, the display name and the role,
// and expires ttlMin minutes from now.
func NewSessionToken(secret string, instructorID int64, name string, ttlMin int) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(instructorID, 10),
		"name": name,
		"role": RoleInstructor,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies raw with secret and returns its claims.  Only
// HMAC-signed tokens are accepted.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return SessionClaims{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrInvalidToken
	}
	sub, _ := claims.GetSubject()
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return SessionClaims{}, ErrInvalidToken
	}
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	return SessionClaims{InstructorID: id, Name: name, Role: role}, nil
}
