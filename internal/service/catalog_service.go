package service

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/ecommerce-project/backend/internal/models"
	"github.com/ecommerce-project/backend/internal/repository"
	"github.com/ecommerce-project/backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCategoriaNotFound = errors.New("categoría no encontrada")
	ErrCategoriaTaken    = errors.New("el nombre de la categoría ya existe")
	ErrProductoNotFound  = errors.New("producto no encontrado")
	ErrPrecioNegativo    = errors.New("el precio no puede ser negativo")
	ErrStockNegativo     = errors.New("el stock no puede ser negativo")
	ErrVendedorNotFound  = errors.New("vendedor no encontrado")
)

// CatalogService covers category and product CRUD. Thin by design: the
// storage layer's constraints (uniqueness, FK cascades) do the heavy
// lifting, the service adds friendly pre-checks and image encoding.
type CatalogService struct {
	categoriaRepo *repository.CategoriaRepository
	productoRepo  *repository.ProductoRepository
	userRepo      *repository.UserRepository
}

func NewCatalogService(
	categoriaRepo *repository.CategoriaRepository,
	productoRepo *repository.ProductoRepository,
	userRepo *repository.UserRepository,
) *CatalogService {
	return &CatalogService{
		categoriaRepo: categoriaRepo,
		productoRepo:  productoRepo,
		userRepo:      userRepo,
	}
}

func (s *CatalogService) ListCategorias() ([]models.Categoria, error) {
	return s.categoriaRepo.GetAll()
}

func (s *CatalogService) GetCategoria(id uint) (*models.Categoria, error) {
	categoria, err := s.categoriaRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if categoria == nil {
		return nil, ErrCategoriaNotFound
	}
	return categoria, nil
}

func (s *CatalogService) CreateCategoria(nombre string) (*models.Categoria, error) {
	existing, err := s.categoriaRepo.GetByName(nombre)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoriaTaken
	}

	categoria := &models.Categoria{NombreCategoria: nombre}
	if err := s.categoriaRepo.Create(categoria); err != nil {
		logger.Log.Error("Failed to create categoria", zap.Error(err))
		return nil, err
	}

	return categoria, nil
}

func (s *CatalogService) UpdateCategoria(id uint, nombre string) (*models.Categoria, error) {
	categoria, err := s.categoriaRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if categoria == nil {
		return nil, ErrCategoriaNotFound
	}

	existing, err := s.categoriaRepo.GetByName(nombre)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, ErrCategoriaTaken
	}

	categoria.NombreCategoria = nombre
	if err := s.categoriaRepo.Update(categoria); err != nil {
		return nil, err
	}

	return categoria, nil
}

func (s *CatalogService) DeleteCategoria(id uint) error {
	categoria, err := s.categoriaRepo.GetByID(id)
	if err != nil {
		return err
	}
	if categoria == nil {
		return ErrCategoriaNotFound
	}

	return s.categoriaRepo.Delete(id)
}

// ProductoInput carries a product create/update request. Imagen holds
// raw bytes whether the client sent multipart or base64 JSON.
type ProductoInput struct {
	NombreProducto string
	Descripcion    string
	CategoriaID    uint
	Precio         float64
	Stock          int
	VendedorID     uuid.UUID
	Imagen         []byte
}

// ProductoResponse is the JSON shape: image bytes travel out as a
// base64 data URI, mirroring how they are consumed by the frontend.
type ProductoResponse struct {
	ID             uint    `json:"id"`
	NombreProducto string  `json:"nombre_producto"`
	Descripcion    string  `json:"descripcion"`
	Categoria      uint    `json:"categoria"`
	Precio         float64 `json:"precio"`
	Stock          int     `json:"stock"`
	Ventas         int     `json:"ventas"`
	Vendedor       string  `json:"vendedor"`
	Imagen         string  `json:"imagen,omitempty"`
}

func toProductoResponse(p *models.Producto) *ProductoResponse {
	resp := &ProductoResponse{
		ID:             p.ID,
		NombreProducto: p.NombreProducto,
		Descripcion:    p.Descripcion,
		Categoria:      p.CategoriaID,
		Precio:         p.Precio,
		Stock:          p.Stock,
		Ventas:         p.Ventas,
		Vendedor:       p.VendedorID.String(),
	}
	if len(p.Imagen) > 0 {
		resp.Imagen = fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(p.Imagen))
	}
	return resp
}

func (s *CatalogService) ListProductos() ([]*ProductoResponse, error) {
	productos, err := s.productoRepo.GetAll()
	if err != nil {
		return nil, err
	}

	responses := make([]*ProductoResponse, 0, len(productos))
	for i := range productos {
		responses = append(responses, toProductoResponse(&productos[i]))
	}

	return responses, nil
}

func (s *CatalogService) GetProducto(id uint) (*ProductoResponse, error) {
	producto, err := s.productoRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, ErrProductoNotFound
	}
	return toProductoResponse(producto), nil
}

func (s *CatalogService) validateProductoInput(in ProductoInput) error {
	if in.Precio < 0 {
		return ErrPrecioNegativo
	}
	if in.Stock < 0 {
		return ErrStockNegativo
	}

	categoria, err := s.categoriaRepo.GetByID(in.CategoriaID)
	if err != nil {
		return err
	}
	if categoria == nil {
		return ErrCategoriaNotFound
	}

	vendedor, err := s.userRepo.GetByID(in.VendedorID)
	if err != nil {
		return err
	}
	if vendedor == nil {
		return ErrVendedorNotFound
	}

	return nil
}

func (s *CatalogService) CreateProducto(in ProductoInput) (*ProductoResponse, error) {
	if err := s.validateProductoInput(in); err != nil {
		return nil, err
	}

	producto := &models.Producto{
		NombreProducto: in.NombreProducto,
		Descripcion:    in.Descripcion,
		CategoriaID:    in.CategoriaID,
		Precio:         in.Precio,
		Stock:          in.Stock,
		VendedorID:     in.VendedorID,
		Imagen:         in.Imagen,
	}

	if err := s.productoRepo.Create(producto); err != nil {
		logger.Log.Error("Failed to create producto", zap.Error(err))
		return nil, err
	}

	return toProductoResponse(producto), nil
}

// UpdateProducto overwrites the mutable fields; the image is replaced
// only when the request actually carried one.
func (s *CatalogService) UpdateProducto(id uint, in ProductoInput) (*ProductoResponse, error) {
	producto, err := s.productoRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, ErrProductoNotFound
	}

	if err := s.validateProductoInput(in); err != nil {
		return nil, err
	}

	producto.NombreProducto = in.NombreProducto
	producto.Descripcion = in.Descripcion
	producto.CategoriaID = in.CategoriaID
	producto.Precio = in.Precio
	producto.Stock = in.Stock
	producto.VendedorID = in.VendedorID
	if len(in.Imagen) > 0 {
		producto.Imagen = in.Imagen
	}

	if err := s.productoRepo.Update(producto); err != nil {
		return nil, err
	}

	return toProductoResponse(producto), nil
}

func (s *CatalogService) DeleteProducto(id uint) error {
	producto, err := s.productoRepo.GetByID(id)
	if err != nil {
		return err
	}
	if producto == nil {
		return ErrProductoNotFound
	}

	return s.productoRepo.Delete(id)
}
