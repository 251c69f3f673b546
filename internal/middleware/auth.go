package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextActorID      = "actorID"
	ContextBusinessID   = "businessID"
	ContextSpecialistID = "specialistID"
	ContextUserRole     = "userRole"
)

// AuthMiddleware trusts an HS256 token issued by the identity service. The
// claims carry sub (actor), businessId, an optional specialistId and role.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		actorID, ok1 := claims["sub"].(float64)
		businessID, ok2 := claims["businessId"].(float64)
		role, _ := claims["role"].(string)
		if !ok1 || !ok2 || businessID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		c.Set(ContextActorID, uint(actorID))
		c.Set(ContextBusinessID, uint(businessID))
		c.Set(ContextUserRole, role)
		if sid, ok := claims["specialistId"].(float64); ok && sid > 0 {
			c.Set(ContextSpecialistID, uint(sid))
		}

		c.Next()
	}
}

// SpecialistID returns the specialist bound to the token, if any.
func SpecialistID(c *gin.Context) *uint {
	v, ok := c.Get(ContextSpecialistID)
	if !ok {
		return nil
	}
	id := v.(uint)
	return &id
}
