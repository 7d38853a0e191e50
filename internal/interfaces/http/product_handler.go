package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/application/usecase"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Description  El stock inicial queda como stock_inicial y stock_actual; no genera movimiento.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        q            query  string  false  "Código o nombre"
// @Param        category_id  query  string  false  "Categoría"
// @Param        inactive     query  bool    false  "Incluir inactivos"
// @Param        limit        query  int     false  "Límite"   default(20)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c, 20, 100)
	out, err := h.uc.List(c.UserContext(), repository.ProductFilter{
		Search:          c.Query("q"),
		CategoryID:      c.Query("category_id"),
		IncludeInactive: c.QueryBool("inactive", false),
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Nunca modifica el stock; para eso están ajustes, ventas y compras.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateProductRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar producto
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

// Activate godoc
// @Summary      Reactivar producto
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Router       /api/products/{id}/activate [post]
func (h *ProductHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

func (h *ProductHandler) setActive(c *fiber.Ctx, active bool) error {
	id, err := requireID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.SetActive(c.UserContext(), id, active); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
