package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are carried by the signed auth cookie. The registered ID
// claim holds the server-side session key so logout can revoke it.
type SessionClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}
