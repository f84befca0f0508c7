package app

import (
	"net/http"
	"strings"

	"lasalleserve/models"
	"lasalleserve/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by AuthRequired.
const (
	CtxUserID   = "userID"
	CtxUserRole = "userRole"
	CtxUserName = "userName"
	CtxTokenID  = "tokenID"
	CtxTokenExp = "tokenExp"
)

type Claims struct {
	Name string      `json:"name"`
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthRequired validates the bearer token, rejects revoked token IDs
// and puts the caller's identity into the request context.
func AuthRequired(tokens *session.TokenStore, cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "missing token"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid token"})
			return
		}

		if claims.ID != "" {
			revoked, err := tokens.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil || revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid token"})
				return
			}
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxUserName, claims.Name)
		c.Set(CtxTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExp, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

// RoleRequired gates a route group to the given roles. It assumes
// AuthRequired already ran.
func RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := RoleFrom(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
	}
}

func UserIDFrom(c *gin.Context) string {
	v, _ := c.Get(CtxUserID)
	id, _ := v.(string)
	return id
}

func RoleFrom(c *gin.Context) models.Role {
	v, _ := c.Get(CtxUserRole)
	role, _ := v.(models.Role)
	return role
}
