package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ecommerce-project/backend/internal/service"
	"github.com/ecommerce-project/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	catalogService *service.CatalogService
}

func NewCategoryHandler(catalogService *service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalogService: catalogService}
}

type CategoriaRequest struct {
	NombreCategoria string `json:"nombre_categoria" binding:"required"`
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return 0, false
	}
	return uint(id), true
}

// List returns every category, unfiltered.
// GET /api/categorias
func (h *CategoryHandler) List(c *gin.Context) {
	categorias, err := h.catalogService.ListCategorias()
	if err != nil {
		logger.Log.Error("Failed to list categorias", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error interno del servidor"})
		return
	}

	c.JSON(http.StatusOK, categorias)
}

// GET /api/categorias/:id
func (h *CategoryHandler) Retrieve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	categoria, err := h.catalogService.GetCategoria(id)
	if err != nil {
		if errors.Is(err, service.ErrCategoriaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		logger.Log.Error("Failed to get categoria", zap.Uint("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error interno del servidor"})
		return
	}

	c.JSON(http.StatusOK, categoria)
}

// POST /api/categorias
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "El campo 'nombre_categoria' es obligatorio"})
		return
	}

	categoria, err := h.catalogService.CreateCategoria(req.NombreCategoria)
	if err != nil {
		if errors.Is(err, service.ErrCategoriaTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		logger.Log.Error("Failed to create categoria", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error interno del servidor"})
		return
	}

	c.JSON(http.StatusCreated, categoria)
}

// PUT /api/categorias/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CategoriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "El campo 'nombre_categoria' es obligatorio"})
		return
	}

	categoria, err := h.catalogService.UpdateCategoria(id, req.NombreCategoria)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoriaNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		case errors.Is(err, service.ErrCategoriaTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			logger.Log.Error("Failed to update categoria", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error interno del servidor"})
		}
		return
	}

	c.JSON(http.StatusOK, categoria)
}

// DELETE /api/categorias/:id — products in the category go with it.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategoria(id); err != nil {
		if errors.Is(err, service.ErrCategoriaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		logger.Log.Error("Failed to delete categoria", zap.Uint("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error interno del servidor"})
		return
	}

	c.Status(http.StatusNoContent)
}
