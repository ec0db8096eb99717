package handler

import (
	"net/http"

	"github.com/ecommerce-project/backend/internal/mailer"
	"github.com/ecommerce-project/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PortalHandler serves the role-scoped landing endpoints and the generic
// mail dispatch endpoint.
type PortalHandler struct {
	mailer mailer.Mailer
}

func NewPortalHandler(m mailer.Mailer) *PortalHandler {
	return &PortalHandler{mailer: m}
}

// Admin greets staff users.
// GET /api/auth/admin (requires authentication + staff)
func (h *PortalHandler) Admin(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Bienvenido, Admin",
		"user": gin.H{
			"username": c.GetString("username"),
			"is_staff": c.GetBool("is_staff"),
		},
	})
}

// Comprador greets any authenticated user.
// GET /api/auth/comprador (requires authentication)
func (h *PortalHandler) Comprador(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Bienvenido, Comprador",
		"user": gin.H{
			"username": c.GetString("username"),
			"is_staff": c.GetBool("is_staff"),
		},
	})
}

type SendEmailRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
	ToEmail string `json:"to_email" binding:"required"`
}

// SendEmail dispatches an arbitrary mail through the configured sender.
// POST /api/auth/email
func (h *PortalHandler) SendEmail(c *gin.Context) {
	var req SendEmailRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Todos los campos son obligatorios",
		})
		return
	}

	if err := h.mailer.Send(req.ToEmail, req.Subject, req.Message); err != nil {
		logger.Log.Error("Mail dispatch failed",
			zap.String("to", req.ToEmail),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error al enviar el correo",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email enviado exitosamente",
	})
}
