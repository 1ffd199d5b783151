package dto

import "time"

// CreateOrganizationRequest entrada para crear una organización (super-admin).
type CreateOrganizationRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Slug          string `json:"slug" validate:"required,min=2,max=63,lowercase"`
	InvoicePrefix string `json:"invoice_prefix" validate:"omitempty,alphanum,max=10"`
}

// UpdateOrganizationRequest campos opcionales.
type UpdateOrganizationRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	InvoicePrefix *string `json:"invoice_prefix" validate:"omitempty,alphanum,max=10"`
	Status        *string `json:"status" validate:"omitempty,oneof=active suspended inactive"`
}

// OrganizationResponse salida de una organización.
type OrganizationResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	InvoicePrefix string    `json:"invoice_prefix"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OrganizationListResponse lista paginada de organizaciones.
type OrganizationListResponse struct {
	Items []OrganizationResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// SetModuleRequest activa o desactiva un módulo SaaS.
type SetModuleRequest struct {
	Active    bool       `json:"active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ModuleResponse estado de un módulo de la organización.
type ModuleResponse struct {
	ModuleName  string     `json:"module_name"`
	IsActive    bool       `json:"is_active"`
	ActivatedAt time.Time  `json:"activated_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}
