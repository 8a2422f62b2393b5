package order

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una orden.
type ReceiptUseCase struct {
	repos     repository.Set
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(repos repository.Set, generator ReceiptGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{repos: repos, generator: generator}
}

// DownloadReceipt devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *ReceiptUseCase) DownloadReceipt(ctx context.Context, orderID string) ([]byte, string, error) {
	o, err := uc.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener orden: %w", err)
	}
	if o == nil {
		return nil, "", domain.ErrOrderNotFound
	}
	user, err := uc.repos.Users.GetByID(ctx, o.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener usuario: %w", err)
	}

	lines := make([]ReceiptLine, 0, len(o.Items))
	for _, it := range o.Items {
		p, err := uc.repos.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, "", fmt.Errorf("comprobante: obtener producto %s: %w", it.ProductID, err)
		}
		name := "Producto " + it.ProductID // eliminado desde que se hizo la orden
		if p != nil {
			name = p.Name
		}
		lines = append(lines, ReceiptLine{
			ProductName: name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}

	pdf, err := uc.generator.GenerateOrderReceipt(ctx, o, user, lines)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generación fallida: %w", err)
	}
	return pdf, fmt.Sprintf("orden_%s.pdf", o.ID), nil
}
