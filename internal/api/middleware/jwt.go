package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/linskybing/admission-portal/internal/config"
	"github.com/linskybing/admission-portal/internal/domain/admission"
	"github.com/linskybing/admission-portal/pkg/response"
	"github.com/linskybing/admission-portal/pkg/types"
)

const claimsKey = "claims"

var jwtKey []byte

// Init sets the JWT signing key.
func Init() {
	jwtKey = []byte(config.JwtSecret)
}

// GenerateToken issues the dashboard token for a stored session.
var GenerateToken = func(sessionID string, admin admission.AdminProfile, expireDuration time.Duration) (string, error) {
	claims := &types.Claims{
		SessionID:  sessionID,
		AdminID:    admin.ID,
		AdminName:  admin.FullName,
		AdminEmail: admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expireDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    config.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ParseToken validates and extracts claims.
func ParseToken(tokenStr string) (*types.Claims, error) {
	claims := &types.Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return nil, err
	}

	return claims, nil
}

// JWTAuthMiddleware validates Bearer token in Authorization header or cookie.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Authorization header format must be Bearer {token}"})
				return
			}
			tokenStr = parts[1]
		} else if cookie, err := c.Cookie("token"); err == nil {
			tokenStr = cookie
		} else if q := c.Query("token"); q != "" && strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			// Browsers cannot set headers on a websocket handshake.
			tokenStr = q
		} else {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Authorization required (header or cookie)"})
			return
		}

		claims, err := ParseToken(tokenStr)
		if err != nil || claims == nil {
			msg := "Invalid token"
			if err != nil {
				msg += ": " + err.Error()
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: msg, Code: response.CodeSessionExpired})
			return
		}

		// Explicitly enforce expiration to avoid lax parser behavior
		if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "token expired", Code: response.CodeSessionExpired})
			return
		}
		if claims.SessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "token carries no session"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// GetClaims returns the claims set by JWTAuthMiddleware.
func GetClaims(c *gin.Context) (*types.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*types.Claims)
	return claims, ok
}

// AdminFromClaims rebuilds the admin profile carried in the token.
func AdminFromClaims(claims *types.Claims) admission.AdminProfile {
	return admission.AdminProfile{ID: claims.AdminID, FullName: claims.AdminName, Email: claims.AdminEmail}
}

// OptionalClaims parses the token of a request outside the JWT-protected
// group. It returns nil when there is no usable token.
func OptionalClaims(c *gin.Context) *types.Claims {
	var tokenStr string
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
	} else if cookie, err := c.Cookie("token"); err == nil {
		tokenStr = cookie
	}
	if tokenStr == "" {
		return nil
	}
	claims, err := ParseToken(tokenStr)
	if err != nil || claims == nil || claims.SessionID == "" {
		return nil
	}
	return claims
}
