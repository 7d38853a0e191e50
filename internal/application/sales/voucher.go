package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

// BusinessInfo datos del emisor impresos en el comprobante.
type BusinessInfo struct {
	Name           string
	RUC            string
	CurrencySymbol string
}

// VoucherLine línea del comprobante enriquecida con el producto.
type VoucherLine struct {
	entity.SaleLine
	ProductCode string
	ProductName string
}

// VoucherData todo lo necesario para imprimir un comprobante de venta.
type VoucherData struct {
	Business BusinessInfo
	Sale     *entity.Sale
	Customer *entity.Customer
	Lines    []VoucherLine
}

// VoucherPDFGenerator genera la representación PDF de un comprobante.
type VoucherPDFGenerator interface {
	GenerateSaleVoucher(ctx context.Context, data VoucherData) ([]byte, error)
}

// VoucherUseCase arma los datos del comprobante y delega el render al generador.
type VoucherUseCase struct {
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	generator    VoucherPDFGenerator
	business     BusinessInfo
}

// NewVoucherUseCase construye el caso de uso inyectando todas sus dependencias.
func NewVoucherUseCase(
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	generator VoucherPDFGenerator,
	business BusinessInfo,
) *VoucherUseCase {
	return &VoucherUseCase{
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		generator:    generator,
		business:     business,
	}
}

// VoucherPDF devuelve el PDF y el nombre de archivo sugerido. Las ventas anuladas también se imprimen (marcadas).
func (uc *VoucherUseCase) VoucherPDF(ctx context.Context, saleID string) ([]byte, string, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", &domain.NotFoundError{Entity: "venta", ID: saleID}
	}
	customer, err := uc.customerRepo.GetByID(ctx, sale.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener cliente: %w", err)
	}
	if customer == nil {
		customer = &entity.Customer{ID: sale.CustomerID, FirstName: "Cliente " + sale.CustomerID}
	}

	lines := make([]VoucherLine, 0, len(sale.Lines))
	for _, l := range sale.Lines {
		vl := VoucherLine{SaleLine: l, ProductName: "Producto " + l.ProductID}
		if p, pErr := uc.productRepo.GetByID(ctx, l.ProductID); pErr == nil && p != nil {
			vl.ProductCode = p.Code
			vl.ProductName = p.Name
		}
		lines = append(lines, vl)
	}

	pdf, err := uc.generator.GenerateSaleVoucher(ctx, VoucherData{
		Business: uc.business,
		Sale:     sale,
		Customer: customer,
		Lines:    lines,
	})
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generación fallida: %w", err)
	}
	return pdf, strings.ToLower(sale.VoucherType) + "_" + sale.Number + ".pdf", nil
}
