package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/application/sales"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
	"github.com/jhoicas/comercializacion-api/pkg/metrics"
)

// SaleHandler ventas y comprobantes (protegido).
type SaleHandler struct {
	coord   *sales.Coordinator
	voucher *sales.VoucherUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(coord *sales.Coordinator, voucher *sales.VoucherUseCase) *SaleHandler {
	return &SaleHandler{coord: coord, voucher: voucher}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock de todas las líneas en una sola transacción. Si una línea no tiene stock no se registra nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Cliente, comprobante y líneas"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.coord.CreateFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	metrics.SalesCreatedTotal.Inc()
	metrics.StockMovements(entity.MovementTypeOUT, len(out.Lines))
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        estado      query  string  false  "completada | anulada"
// @Param        cliente_id  query  string  false  "Cliente"
// @Param        desde       query  string  false  "YYYY-MM-DD"
// @Param        hasta       query  string  false  "YYYY-MM-DD"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	from, err := dateQuery(c, "desde", false)
	if err != nil {
		return respondError(c, err)
	}
	to, err := dateQuery(c, "hasta", true)
	if err != nil {
		return respondError(c, err)
	}
	limit, offset := pageParams(c, sales.DefaultListLimit, sales.MaxListLimit)
	list, err := h.coord.ListSales(c.UserContext(), repository.SaleFilter{
		State:      entity.SaleState(c.Query("estado")),
		CustomerID: c.Query("cliente_id"),
		From:       from,
		To:         to,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, s := range list {
		out.Items = append(out.Items, *sales.ToSaleResponse(s))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta con detalle
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return respondError(c, err)
	}
	sale, err := h.coord.GetSale(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sales.ToSaleResponse(sale))
}

// Void godoc
// @Summary      Anular venta
// @Description  Devuelve el stock de cada línea con movimientos de entrada. Solo ventas completadas.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/void [post]
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return respondError(c, err)
	}
	sale, err := h.coord.VoidSale(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	metrics.SalesVoidedTotal.Inc()
	metrics.StockMovements(entity.MovementTypeIN, len(sale.Lines))
	return c.JSON(sales.ToSaleResponse(sale))
}

// Voucher godoc
// @Summary      Comprobante de venta en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/voucher.pdf [get]
func (h *SaleHandler) Voucher(c *fiber.Ctx) error {
	id, err := requireID(c)
	if err != nil {
		return respondError(c, err)
	}
	pdf, filename, err := h.voucher.VoucherPDF(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}

// Summary godoc
// @Summary      Resumen de ventas del período
// @Description  Solo ventas completadas: total, descuentos, ticket promedio, mínimo y máximo, desglose por método de pago.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        desde  query  string  true  "YYYY-MM-DD"
// @Param        hasta  query  string  true  "YYYY-MM-DD"
// @Success      200  {object}  dto.SalesSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/summary [get]
func (h *SaleHandler) Summary(c *fiber.Ctx) error {
	from, to, err := periodQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	s, err := h.coord.Summary(c.UserContext(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sales.ToSummaryResponse(s, from, to))
}

// Daily godoc
// @Summary      Ventas del día
// @Description  Ventas completadas de la fecha indicada (hoy si se omite).
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        fecha  query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.SaleListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/daily [get]
func (h *SaleHandler) Daily(c *fiber.Ctx) error {
	day, err := dateQuery(c, "fecha", false)
	if err != nil {
		return respondError(c, err)
	}
	var list []*entity.Sale
	if day == nil {
		list, err = h.coord.Today(c.UserContext())
	} else {
		list, err = h.coord.SalesOfDay(c.UserContext(), *day)
	}
	if err != nil {
		return respondError(c, err)
	}
	out := dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: len(list)},
	}
	for _, s := range list {
		out.Items = append(out.Items, *sales.ToSaleResponse(s))
	}
	return c.JSON(out)
}
