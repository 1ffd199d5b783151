package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/access"
	apphttp "github.com/jhoicas/Orbita-api/internal/interfaces/http"
)

type MockInvoices struct {
	mock.Mock
}

func (m *MockInvoices) Create(ctx context.Context, p *access.Principal, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	args := m.Called(ctx, p, in)
	out, _ := args.Get(0).(*dto.InvoiceResponse)
	return out, args.Error(1)
}

func (m *MockInvoices) Get(ctx context.Context, p *access.Principal, id string) (*dto.InvoiceResponse, error) {
	args := m.Called(ctx, p, id)
	out, _ := args.Get(0).(*dto.InvoiceResponse)
	return out, args.Error(1)
}

func (m *MockInvoices) List(ctx context.Context, p *access.Principal, in dto.ListInvoicesRequest) (*dto.InvoiceListResponse, error) {
	args := m.Called(ctx, p, in)
	out, _ := args.Get(0).(*dto.InvoiceListResponse)
	return out, args.Error(1)
}

func (m *MockInvoices) Update(ctx context.Context, p *access.Principal, id string, patch dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	args := m.Called(ctx, p, id, patch)
	out, _ := args.Get(0).(*dto.InvoiceResponse)
	return out, args.Error(1)
}

func (m *MockInvoices) Send(ctx context.Context, p *access.Principal, id string) (*dto.InvoiceResponse, error) {
	args := m.Called(ctx, p, id)
	out, _ := args.Get(0).(*dto.InvoiceResponse)
	return out, args.Error(1)
}

func (m *MockInvoices) Cancel(ctx context.Context, p *access.Principal, id string) (*dto.InvoiceResponse, error) {
	args := m.Called(ctx, p, id)
	out, _ := args.Get(0).(*dto.InvoiceResponse)
	return out, args.Error(1)
}

func (m *MockInvoices) MarkPaid(ctx context.Context, p *access.Principal, id string, in dto.RecordPaymentRequest) (*dto.MarkPaidResponse, error) {
	args := m.Called(ctx, p, id, in)
	out, _ := args.Get(0).(*dto.MarkPaidResponse)
	return out, args.Error(1)
}

func (m *MockInvoices) GenerateRecurring(ctx context.Context, p *access.Principal, parentID string) (*dto.InvoiceResponse, error) {
	args := m.Called(ctx, p, parentID)
	out, _ := args.Get(0).(*dto.InvoiceResponse)
	return out, args.Error(1)
}

type MockPDF struct {
	mock.Mock
}

func (m *MockPDF) DownloadInvoicePDF(ctx context.Context, p *access.Principal, invoiceID string) ([]byte, string, error) {
	args := m.Called(ctx, p, invoiceID)
	b, _ := args.Get(0).([]byte)
	return b, args.String(1), args.Error(2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Suite
// ──────────────────────────────────────────────────────────────────────────────

type InvoiceHandlerTestSuite struct {
	suite.Suite
	invoices *MockInvoices
	pdf      *MockPDF
	app      *fiber.App
}

func TestInvoiceHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceHandlerTestSuite))
}

func (s *InvoiceHandlerTestSuite) SetupTest() {
	s.invoices = &MockInvoices{}
	s.pdf = &MockPDF{}
	h := apphttp.NewInvoiceHandler(s.invoices, s.pdf)

	s.app = fiber.New()
	g := s.app.Group("/api/invoices", apphttp.AuthMiddleware(testJWTSecret, resolverFor(access.RolePM), nil))
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
	g.Patch("/:id", h.Update)
	g.Post("/:id/send", h.Send)
	g.Post("/:id/payments", h.RecordPayment)
	g.Get("/:id/pdf", h.DownloadPDF)
}

func (s *InvoiceHandlerTestSuite) do(method, path string, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(s.T()))
	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

func (s *InvoiceHandlerTestSuite) decodeError(resp *http.Response) dto.ErrorResponse {
	var out dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *InvoiceHandlerTestSuite) TestCreate_201() {
	s.invoices.On("Create", mock.Anything, mock.MatchedBy(func(p *access.Principal) bool { return p.UserID == testUserID }),
		mock.MatchedBy(func(in dto.CreateInvoiceRequest) bool {
			return in.ClientName == "Acme" && len(in.LineItems) == 2 && in.TaxRate.Equal(decimal.NewFromInt(8))
		})).
		Return(&dto.InvoiceResponse{ID: "inv-1", InvoiceNumber: "INV-2024-000001", TotalAmount: decimal.NewFromInt(135)}, nil)

	resp := s.do(http.MethodPost, "/api/invoices/", map[string]any{
		"client_name": "Acme",
		"tax_rate":    8,
		"line_items": []map[string]any{
			{"description": "A", "quantity": 2, "unit_price": 50, "amount": 100},
			{"description": "B", "quantity": 1, "unit_price": 25, "amount": 25},
		},
	})
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)
	var out dto.InvoiceResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	s.Equal("INV-2024-000001", out.InvoiceNumber)
	s.True(out.TotalAmount.Equal(decimal.NewFromInt(135)))
}

func (s *InvoiceHandlerTestSuite) TestCreate_ValidacionEnFrontera() {
	resp := s.do(http.MethodPost, "/api/invoices/", map[string]any{
		"client_name":  "Acme",
		"client_email": "not-an-email",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("client_email must be a valid email", s.decodeError(resp).Message)
	s.invoices.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (s *InvoiceHandlerTestSuite) TestCreate_MotivoDelDominio() {
	s.invoices.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.NewValidationError("Tax rate must be between 0 and 100"))

	resp := s.do(http.MethodPost, "/api/invoices/", map[string]any{"client_name": "Acme", "tax_rate": 150})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("Tax rate must be between 0 and 100", s.decodeError(resp).Message)
}

func (s *InvoiceHandlerTestSuite) TestGet_NoVisibleEs404() {
	s.invoices.On("Get", mock.Anything, mock.Anything, "other-org").Return(nil, domain.ErrNotFound)

	resp := s.do(http.MethodGet, "/api/invoices/other-org", nil)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal("NOT_FOUND", s.decodeError(resp).Code)
}

func (s *InvoiceHandlerTestSuite) TestList_LeeFiltrosYPaginacion() {
	s.invoices.On("List", mock.Anything, mock.Anything, dto.ListInvoicesRequest{
		Status:      "sent",
		PageRequest: dto.PageRequest{Limit: 100, Offset: 5},
	}).Return(&dto.InvoiceListResponse{Items: []dto.InvoiceResponse{}}, nil)

	resp := s.do(http.MethodGet, "/api/invoices/?status=sent&limit=500&offset=5", nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.invoices.AssertExpectations(s.T())
}

func (s *InvoiceHandlerTestSuite) TestList_EstadoDesconocido() {
	resp := s.do(http.MethodGet, "/api/invoices/?status=archived", nil)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *InvoiceHandlerTestSuite) TestUpdate_PatchParcial() {
	s.invoices.On("Update", mock.Anything, mock.Anything, "inv-1",
		mock.MatchedBy(func(p dto.UpdateInvoiceRequest) bool {
			return p.Notes != nil && *p.Notes == "hola" && p.ClientName == nil && p.LineItems == nil
		})).
		Return(&dto.InvoiceResponse{ID: "inv-1"}, nil)

	resp := s.do(http.MethodPatch, "/api/invoices/inv-1", map[string]any{"notes": "hola"})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *InvoiceHandlerTestSuite) TestUpdate_NoBorrador() {
	s.invoices.On("Update", mock.Anything, mock.Anything, "inv-1", mock.Anything).
		Return(nil, domain.NewValidationError("Only draft invoices can be updated"))

	resp := s.do(http.MethodPatch, "/api/invoices/inv-1", map[string]any{"notes": "x"})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("Only draft invoices can be updated", s.decodeError(resp).Message)
}

func (s *InvoiceHandlerTestSuite) TestRecordPayment() {
	s.invoices.On("MarkPaid", mock.Anything, mock.Anything, "inv-1",
		mock.MatchedBy(func(in dto.RecordPaymentRequest) bool { return in.Amount.Equal(decimal.NewFromInt(80)) })).
		Return(&dto.MarkPaidResponse{TotalPaid: decimal.NewFromInt(200)}, nil)

	resp := s.do(http.MethodPost, "/api/invoices/inv-1/payments", map[string]any{"amount": "80", "method": "transfer"})
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)
}

func (s *InvoiceHandlerTestSuite) TestDownloadPDF() {
	s.pdf.On("DownloadInvoicePDF", mock.Anything, mock.Anything, "inv-1").
		Return([]byte("%PDF-1.3"), "invoice_INV-2024-000001.pdf", nil)

	resp := s.do(http.MethodGet, "/api/invoices/inv-1/pdf", nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/pdf", resp.Header.Get("Content-Type"))
	s.Contains(resp.Header.Get("Content-Disposition"), "invoice_INV-2024-000001.pdf")
}

func TestInvoiceHandler_SinTokenNoLlegaAlCasoDeUso(t *testing.T) {
	invoices := &MockInvoices{}
	h := apphttp.NewInvoiceHandler(invoices, &MockPDF{})
	app := fiber.New()
	app.Post("/api/invoices", apphttp.AuthMiddleware(testJWTSecret, &MockResolver{}, nil), h.Create)

	req := httptest.NewRequest(http.MethodPost, "/api/invoices", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}
