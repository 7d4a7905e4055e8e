package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the decoded content of a verified session token.
// Every field the gate injects downstream comes from here; handlers never
// parse the raw token themselves.
type AppClaims struct {
	UserID     int    `json:"user_id"`
	Username   string `json:"username"`
	Role       Role   `json:"role"`
	DivisionID *int   `json:"division_id"`
	FullName   string `json:"fullname"`
	jwt.RegisteredClaims
}
