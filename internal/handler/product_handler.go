package handler

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ecommerce-project/backend/internal/service"
	"github.com/ecommerce-project/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductHandler struct {
	catalogService *service.CatalogService
}

func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

type ProductoRequest struct {
	NombreProducto string  `json:"nombre_producto" binding:"required"`
	Descripcion    string  `json:"descripcion"`
	Categoria      uint    `json:"categoria" binding:"required"`
	Precio         float64 `json:"precio"`
	Stock          int     `json:"stock"`
	Vendedor       string  `json:"vendedor"`
	Imagen         string  `json:"imagen"`
}

// bindProductoInput accepts either a JSON body (image as base64, with or
// without a data URI prefix) or a multipart form (image as a raw file).
func (h *ProductHandler) bindProductoInput(c *gin.Context) (service.ProductoInput, bool) {
	var in service.ProductoInput

	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		nombre := c.PostForm("nombre_producto")
		if nombre == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "El campo 'nombre_producto' es obligatorio"})
			return in, false
		}

		categoriaID, err := strconv.ParseUint(c.PostForm("categoria"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "El campo 'categoria' es obligatorio"})
			return in, false
		}

		precio, err := strconv.ParseFloat(c.DefaultPostForm("precio", "0"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "El campo 'precio' es inválido"})
			return in, false
		}

		stock, err := strconv.Atoi(c.DefaultPostForm("stock", "0"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "El campo 'stock' es inválido"})
			return in, false
		}

		in.NombreProducto = nombre
		in.Descripcion = c.PostForm("descripcion")
		in.CategoriaID = uint(categoriaID)
		in.Precio = precio
		in.Stock = stock

		if vendedor := c.PostForm("vendedor"); vendedor != "" {
			id, err := uuid.Parse(vendedor)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "El campo 'vendedor' es inválido"})
				return in, false
			}
			in.VendedorID = id
		}

		if file, err := c.FormFile("imagen"); err == nil {
			f, err := file.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "No se pudo leer la imagen"})
				return in, false
			}
			defer f.Close()

			data, err := io.ReadAll(f)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "No se pudo leer la imagen"})
				return in, false
			}
			in.Imagen = data
		}
	} else {
		var req ProductoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cuerpo de la solicitud inválido"})
			return in, false
		}

		in.NombreProducto = req.NombreProducto
		in.Descripcion = req.Descripcion
		in.CategoriaID = req.Categoria
		in.Precio = req.Precio
		in.Stock = req.Stock

		if req.Vendedor != "" {
			id, err := uuid.Parse(req.Vendedor)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "El campo 'vendedor' es inválido"})
				return in, false
			}
			in.VendedorID = id
		}

		if req.Imagen != "" {
			payload := req.Imagen
			// Tolerate data URIs ("data:image/png;base64,....").
			if idx := strings.Index(payload, "base64,"); idx >= 0 {
				payload = payload[idx+len("base64,"):]
			}
			data, err := base64.StdEncoding.DecodeString(payload)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "El campo 'imagen' no es base64 válido"})
				return in, false
			}
			in.Imagen = data
		}
	}

	// Default the seller to the authenticated caller.
	if in.VendedorID == uuid.Nil {
		if raw, exists := c.Get("user_id"); exists {
			if id, ok := raw.(uuid.UUID); ok {
				in.VendedorID = id
			}
		}
	}

	return in, true
}

func (h *ProductHandler) writeCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrCategoriaNotFound),
		errors.Is(err, service.ErrVendedorNotFound),
		errors.Is(err, service.ErrPrecioNegativo),
		errors.Is(err, service.ErrStockNegativo):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		logger.Log.Error("Catalog operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error interno del servidor"})
	}
}

// GET /api/productos
func (h *ProductHandler) List(c *gin.Context) {
	productos, err := h.catalogService.ListProductos()
	if err != nil {
		logger.Log.Error("Failed to list productos", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error interno del servidor"})
		return
	}

	c.JSON(http.StatusOK, productos)
}

// GET /api/productos/:id
func (h *ProductHandler) Retrieve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	producto, err := h.catalogService.GetProducto(id)
	if err != nil {
		h.writeCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, producto)
}

// POST /api/productos
func (h *ProductHandler) Create(c *gin.Context) {
	in, ok := h.bindProductoInput(c)
	if !ok {
		return
	}

	producto, err := h.catalogService.CreateProducto(in)
	if err != nil {
		h.writeCatalogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, producto)
}

// PUT /api/productos/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	in, ok := h.bindProductoInput(c)
	if !ok {
		return
	}

	producto, err := h.catalogService.UpdateProducto(id, in)
	if err != nil {
		h.writeCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, producto)
}

// DELETE /api/productos/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProducto(id); err != nil {
		h.writeCatalogError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
