package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/application/inventory"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/pkg/metrics"
)

// InventoryHandler kardex, ajustes, conteos y reportes de inventario (protegido).
type InventoryHandler struct {
	ledger   *inventory.StockLedger
	adjust   *inventory.AdjustmentCoordinator
	reports  *inventory.ReportUseCase
	exporter inventory.ReportExporter
}

// NewInventoryHandler construye el handler. exporter puede ser nil: la exportación responde 500.
func NewInventoryHandler(ledger *inventory.StockLedger, adjust *inventory.AdjustmentCoordinator, reports *inventory.ReportUseCase, exporter inventory.ReportExporter) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, adjust: adjust, reports: reports, exporter: exporter}
}

// Stock godoc
// @Summary      Stock actual de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [get]
func (h *InventoryHandler) Stock(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return respondError(c, err)
	}
	stock, err := h.ledger.CurrentStock(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockResponse{ProductID: id, CurrentStock: stock})
}

// Movements godoc
// @Summary      Kardex de un producto
// @Description  Del más reciente al más antiguo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        tipo    query  string  false  "entrada | salida | ajuste"
// @Param        desde   query  string  false  "YYYY-MM-DD"
// @Param        hasta   query  string  false  "YYYY-MM-DD"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return respondError(c, err)
	}
	from, err := dateQuery(c, "desde", false)
	if err != nil {
		return respondError(c, err)
	}
	to, err := dateQuery(c, "hasta", true)
	if err != nil {
		return respondError(c, err)
	}
	limit, offset := pageParams(c, inventory.DefaultHistoryLimit, inventory.MaxHistoryLimit)
	list, err := h.ledger.History(c.UserContext(), id, inventory.HistoryFilter{
		From:   from,
		To:     to,
		Type:   c.Query("tipo"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, inventory.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar stock con el kardex
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ReconciliationResponse
// @Router       /api/products/{id}/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return respondError(c, err)
	}
	rec, err := h.ledger.Reconcile(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !rec.Consistent {
		requestLogger(c).Warn().Str("product_id", id).Int("drift", rec.Drift).Msg("stock inconsistente con el kardex")
	}
	return c.JSON(dto.ReconciliationResponse{
		ProductID:      rec.ProductID,
		InitialStock:   rec.InitialStock,
		MovementsDelta: rec.MovementsDelta,
		Expected:       rec.Expected,
		Actual:         rec.Actual,
		Drift:          rec.Drift,
		Consistent:     rec.Consistent,
	})
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  delta positivo suma, negativo resta. Falla con 409 si el stock quedaría negativo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, delta, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.adjust.AdjustFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	metrics.StockMovements(entity.MovementTypeADJUSTMENT, 1)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Count godoc
// @Summary      Conteo físico
// @Description  Fija el stock al valor contado registrando un ajuste por la diferencia.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PhysicalCountRequest  true  "product_id, counted"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/counts [post]
func (h *InventoryHandler) Count(c *fiber.Ctx) error {
	var in dto.PhysicalCountRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.adjust.CountFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	metrics.StockMovements(entity.MovementTypeADJUSTMENT, 1)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItemDTO
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.reports.LowStock(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"items": list,
	})
}

// Valuation godoc
// @Summary      Valorización del inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ValuationResponse
// @Router       /api/inventory/valuation [get]
func (h *InventoryHandler) Valuation(c *fiber.Ctx) error {
	out, err := h.reports.Valuation(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Reporte de inventario en Excel (existencias, stock bajo, valorización)
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/inventory/report.xlsx [get]
func (h *InventoryHandler) Export(c *fiber.Ctx) error {
	out, err := h.reports.Export(c.UserContext(), h.exporter)
	if err != nil {
		return respondError(c, err)
	}
	filename := "inventario-" + time.Now().Format("20060102") + ".xlsx"
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(out)
}

// Rotation godoc
// @Summary      Rotación de productos
// @Description  Unidades vendidas (salidas) en los últimos días sobre el stock actual, mayor rotación primero.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        dias  query  int  false  "Período en días"  default(30)
// @Success      200  {object}  dto.RotationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/rotation [get]
func (h *InventoryHandler) Rotation(c *fiber.Ctx) error {
	out, err := h.reports.Rotation(c.UserContext(), c.QueryInt("dias", inventory.DefaultRotationDays))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Idle godoc
// @Summary      Productos sin movimiento
// @Description  Productos activos sin movimientos en los últimos días; primero los que nunca se movieron.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        dias  query  int  false  "Período en días"  default(60)
// @Success      200  {object}  dto.IdleProductsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/idle [get]
func (h *InventoryHandler) Idle(c *fiber.Ctx) error {
	out, err := h.reports.IdleProducts(c.UserContext(), c.QueryInt("dias", inventory.DefaultIdleDays))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
