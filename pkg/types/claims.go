package types

import "github.com/golang-jwt/jwt/v5"

// Claims is the payload of the dashboard session token. It only points at
// the server-side session; the backend credential never leaves the server.
type Claims struct {
	SessionID  string `json:"sid"`
	AdminID    uint   `json:"admin_id"`
	AdminName  string `json:"admin_name"`
	AdminEmail string `json:"admin_email"`
	jwt.RegisteredClaims
}
