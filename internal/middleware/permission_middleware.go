package middleware

import (
	"net/http"

	"github.com/ecommerce-project/backend/internal/repository"
	"github.com/ecommerce-project/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HTTP method to permission action, <action>_<entity> codenames.
var methodActions = map[string]string{
	http.MethodGet:    "view",
	http.MethodPost:   "add",
	http.MethodPut:    "change",
	http.MethodPatch:  "change",
	http.MethodDelete: "delete",
}

// ModelPermission runs after AuthMiddleware and checks that the caller
// holds the model-level grant for the entity and HTTP method. The
// effective set is the union of direct grants and group-inherited ones;
// the role name plays no part here, it is only a token claim.
func ModelPermission(userRepo *repository.UserRepository, entity string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Se requiere autenticación",
			})
			c.Abort()
			return
		}

		userID, ok := rawID.(uuid.UUID)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Se requiere autenticación",
			})
			c.Abort()
			return
		}

		action, ok := methodActions[c.Request.Method]
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{
				"message": "Método no permitido",
			})
			c.Abort()
			return
		}

		codename := action + "_" + entity

		permissions, err := userRepo.EffectivePermissions(userID)
		if err != nil {
			logger.Log.Error("Permission lookup failed",
				zap.String("user_id", userID.String()),
				zap.String("codename", codename),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Error interno del servidor",
			})
			c.Abort()
			return
		}

		for _, p := range permissions {
			if p == codename {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"message": "No tienes permiso para realizar esta acción",
		})
		c.Abort()
	}
}
