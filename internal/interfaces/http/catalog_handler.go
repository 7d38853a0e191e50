package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/application/usecase"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

func partyFilter(c *fiber.Ctx) repository.PartyFilter {
	limit, offset := pageParams(c, 50, 200)
	return repository.PartyFilter{
		Search:          c.Query("q"),
		IncludeInactive: c.QueryBool("inactive", false),
		Limit:           limit,
		Offset:          offset,
	}
}

// CategoryHandler categorías de productos.
type CategoryHandler struct {
	uc *usecase.CategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Datos de la categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
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
// @Summary      Obtener categoría
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.CategoryResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Listar categorías
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  false  "Nombre"
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), partyFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar categoría
// @Tags         categories
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Deactivate(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Deactivate(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CustomerHandler clientes.
type CustomerHandler struct {
	uc *usecase.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *usecase.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
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
// @Summary      Obtener cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.CustomerResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  false  "Documento o nombre"
// @Success      200  {array}  dto.CustomerResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), partyFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar cliente
// @Tags         customers
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Deactivate(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Deactivate(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SupplierHandler proveedores.
type SupplierHandler struct {
	uc *usecase.SupplierUseCase
}

// NewSupplierHandler construye el handler.
func NewSupplierHandler(uc *usecase.SupplierUseCase) *SupplierHandler {
	return &SupplierHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupplierRequest  true  "Datos del proveedor"
// @Success      201   {object}  dto.SupplierResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/suppliers [post]
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSupplierRequest
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
// @Summary      Obtener proveedor
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SupplierResponse
// @Router       /api/suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Listar proveedores
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  false  "RUC o razón social"
// @Success      200  {array}  dto.SupplierResponse
// @Router       /api/suppliers [get]
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), partyFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar proveedor
// @Tags         suppliers
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Router       /api/suppliers/{id} [delete]
func (h *SupplierHandler) Deactivate(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Deactivate(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
