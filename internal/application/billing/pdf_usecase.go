package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Orbita-api/internal/domain/access"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/internal/domain/repository"
)

// PDFUseCase genera la versión imprimible de una factura visible para el llamador.
type PDFUseCase struct {
	invoices  *InvoiceUseCase
	orgs      repository.OrganizationRepository
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(invoices *InvoiceUseCase, orgs repository.OrganizationRepository, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{invoices: invoices, orgs: orgs, generator: generator}
}

// DownloadInvoicePDF aplica la misma visibilidad que Get (invisible → ErrNotFound) y renderiza el PDF.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, p *access.Principal, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoices.load(ctx, p, invoiceID, access.Read)
	if err != nil {
		return nil, "", err
	}
	if inv.LineItems, err = uc.invoices.invoices.GetLineItems(ctx, inv.ID); err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}

	org, err := uc.orgs.GetByID(ctx, inv.OrganizationID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener organización: %w", err)
	}
	if org == nil {
		org = &entity.Organization{ID: inv.OrganizationID}
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, org)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("invoice_%s.pdf", inv.InvoiceNumber), nil
}
