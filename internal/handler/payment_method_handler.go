package handler

import (
	"net/http"

	"github.com/ecommerce-project/backend/internal/repository"
	"github.com/ecommerce-project/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentMethodHandler serves the payment-type lookup table.
type PaymentMethodHandler struct {
	repo *repository.MetodoPagoRepository
}

func NewPaymentMethodHandler(repo *repository.MetodoPagoRepository) *PaymentMethodHandler {
	return &PaymentMethodHandler{repo: repo}
}

// GET /api/metodos-pago
func (h *PaymentMethodHandler) List(c *gin.Context) {
	metodos, err := h.repo.GetAll()
	if err != nil {
		logger.Log.Error("Failed to list metodos de pago", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error interno del servidor"})
		return
	}

	c.JSON(http.StatusOK, metodos)
}
