package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is carried in the console session cookie.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}
