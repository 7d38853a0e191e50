package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/application/purchasing"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
	"github.com/jhoicas/comercializacion-api/pkg/metrics"
)

// PurchaseHandler órdenes de compra (protegido).
type PurchaseHandler struct {
	coord *purchasing.Coordinator
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(coord *purchasing.Coordinator) *PurchaseHandler {
	return &PurchaseHandler{coord: coord}
}

// Create godoc
// @Summary      Registrar compra pendiente
// @Description  No modifica stock hasta que la compra se recibe.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Proveedor y líneas"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.coord.CreateFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar compras
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        estado        query  string  false  "pendiente | recibida | cancelada"
// @Param        proveedor_id  query  string  false  "Proveedor"
// @Param        desde         query  string  false  "YYYY-MM-DD"
// @Param        hasta         query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.PurchaseListResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	from, err := dateQuery(c, "desde", false)
	if err != nil {
		return respondError(c, err)
	}
	to, err := dateQuery(c, "hasta", true)
	if err != nil {
		return respondError(c, err)
	}
	limit, offset := pageParams(c, purchasing.DefaultListLimit, purchasing.MaxListLimit)
	list, err := h.coord.ListPurchases(c.UserContext(), repository.PurchaseFilter{
		State:      entity.PurchaseState(c.Query("estado")),
		SupplierID: c.Query("proveedor_id"),
		From:       from,
		To:         to,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.PurchaseListResponse{
		Items: make([]dto.PurchaseResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, p := range list {
		out.Items = append(out.Items, *purchasing.ToPurchaseResponse(p))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener compra con detalle
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return respondError(c, err)
	}
	p, err := h.coord.GetPurchase(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(purchasing.ToPurchaseResponse(p))
}

// Receive godoc
// @Summary      Recibir compra
// @Description  Registra una entrada por línea y pasa la compra a recibida. Solo compras pendientes.
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/receive [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return respondError(c, err)
	}
	p, err := h.coord.ReceivePurchase(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	metrics.PurchasesReceivedTotal.Inc()
	metrics.StockMovements(entity.MovementTypeIN, len(p.Lines))
	return c.JSON(purchasing.ToPurchaseResponse(p))
}

// Cancel godoc
// @Summary      Cancelar compra pendiente
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/cancel [post]
func (h *PurchaseHandler) Cancel(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return respondError(c, err)
	}
	p, err := h.coord.CancelPurchase(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(purchasing.ToPurchaseResponse(p))
}

// Summary godoc
// @Summary      Resumen de compras del período
// @Description  Compras por estado; el gasto y el promedio cuentan solo las recibidas.
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        desde  query  string  true  "YYYY-MM-DD"
// @Param        hasta  query  string  true  "YYYY-MM-DD"
// @Success      200  {object}  dto.PurchasesSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchases/summary [get]
func (h *PurchaseHandler) Summary(c *fiber.Ctx) error {
	from, to, err := periodQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	s, err := h.coord.Summary(c.UserContext(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(purchasing.ToSummaryResponse(s, from, to))
}
