package middleware

import (
	"net/http"
	"strings"

	"github.com/ecommerce-project/backend/internal/blacklist"
	"github.com/ecommerce-project/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware admits callers holding a valid, non-expired,
// non-blacklisted access token. Any failure is a 401; the response never
// says which check failed.
func AuthMiddleware(jwtSecret string, bl blacklist.Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Se requiere autenticación",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Formato de autorización inválido, use: Bearer <token>",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret, utils.TokenTypeAccess)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Token inválido o expirado",
			})
			c.Abort()
			return
		}

		revoked, err := bl.Contains(claims.ID)
		if err != nil || revoked {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Token inválido o expirado",
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("rol", claims.Rol)
		c.Set("is_staff", claims.IsStaff)
		c.Set("claims", claims)

		c.Next()
	}
}

// StaffMiddleware runs after AuthMiddleware and restricts the route to
// staff accounts. Authenticated non-staff callers get a 403.
func StaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isStaff, exists := c.Get("is_staff")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Se requiere autenticación",
			})
			c.Abort()
			return
		}

		if staff, ok := isStaff.(bool); !ok || !staff {
			c.JSON(http.StatusForbidden, gin.H{
				"message": "Se requieren permisos de staff para esta acción",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
