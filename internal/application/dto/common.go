package dto

// Límites de paginación de los listados (facturas, usuarios, organizaciones).
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest limit/offset de un listado. Usar NewPageRequest para acotarlo.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// NewPageRequest acota limit a [1, MaxPageSize] (cero o negativo = DefaultPageSize) y offset a ≥0.
func NewPageRequest(limit, offset int) PageRequest {
	p := PageRequest{Limit: limit, Offset: offset}
	p.DefaultPage()
	return p
}

// DefaultPage normaliza en sitio; los casos de uso lo aplican también a peticiones internas.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageSize
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página. Total solo lo informan los listados que lo cuentan.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error de la API: code estable para clientes y message legible.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
