package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de comisión (afiliados y partners).
const (
	CommissionPending  = "pending"
	CommissionApproved = "approved"
	CommissionPaid     = "paid"
	CommissionRejected = "rejected"
)

// Tipos de comisión.
const (
	CommissionKindAffiliate = "affiliate"
	CommissionKindPartner   = "partner"
)

// Commission comisión de un afiliado o partner.
type Commission struct {
	ID             string
	OrganizationID string
	Kind           string // affiliate, partner
	BeneficiaryID  string
	Amount         decimal.Decimal
	Status         string
	CreatedAt      time.Time
}
