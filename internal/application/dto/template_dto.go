package dto

import (
	"encoding/json"
	"time"
)

// CreateTemplateRequest body para POST /api/templates.
// is_publicly_available = true crea una plantilla global (solo super-admin).
type CreateTemplateRequest struct {
	Name                string          `json:"name" validate:"required,max=200"`
	Description         string          `json:"description,omitempty" validate:"max=2000"`
	Content             json.RawMessage `json:"content,omitempty"`
	IsPubliclyAvailable bool            `json:"is_publicly_available"`
}

// DuplicateTemplateRequest body opcional para POST /api/templates/:id/duplicate.
type DuplicateTemplateRequest struct {
	Name string `json:"name,omitempty" validate:"max=200"`
}

// TemplateResponse plantilla en respuestas.
type TemplateResponse struct {
	ID                  string          `json:"id"`
	OrganizationID      string          `json:"organization_id,omitempty"`
	OwnerID             string          `json:"owner_id"`
	Name                string          `json:"name"`
	Description         string          `json:"description,omitempty"`
	Content             json.RawMessage `json:"content,omitempty"`
	IsPubliclyAvailable bool            `json:"is_publicly_available"`
	SourceTemplateID    string          `json:"source_template_id,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}
