package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Orbita-api/internal/domain/stats"
)

// UserCountsDTO usuarios de la organización y porcentaje de activos (entero).
type UserCountsDTO struct {
	Total         int64 `json:"total"`
	Active        int64 `json:"active"`
	ActivePercent int64 `json:"active_percent"`
}

// CombinedResourcesResponse respuesta de GET /api/resources/combined.
// Degraded lista las secciones que no se pudieron cargar y van vacías.
type CombinedResourcesResponse struct {
	OrganizationID string                  `json:"organization_id"`
	Workloads      []stats.Workload        `json:"workloads"`
	OverAllocated  int                     `json:"over_allocated"`
	Users          UserCountsDTO           `json:"users"`
	Affiliate      stats.CommissionSummary `json:"affiliate_commissions"`
	Partner        stats.CommissionSummary `json:"partner_commissions"`
	Degraded       []string                `json:"degraded,omitempty"`
	GeneratedAt    time.Time               `json:"generated_at"`
	Cached         bool                    `json:"cached"`
}

// UpdateCommissionStatusRequest body para PATCH /api/commissions/:id.
type UpdateCommissionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved paid rejected"`
}

// CommissionResponse comisión tras un cambio de estado.
type CommissionResponse struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	Kind           string          `json:"kind"`
	BeneficiaryID  string          `json:"beneficiary_id"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
}
