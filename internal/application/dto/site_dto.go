package dto

import "time"

// CreateSiteRequest entrada para crear un objeto de obra. Status vacío = ACTIVE.
type CreateSiteRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"omitempty,max=500"`
	Status  string `json:"status" validate:"omitempty,oneof=ACTIVE COMPLETED SUSPENDED"`
}

// UpdateSiteRequest entrada para actualizar nombre, dirección y estado.
type UpdateSiteRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	Status  *string `json:"status" validate:"omitempty,oneof=ACTIVE COMPLETED SUSPENDED"`
}

// SiteResponse salida de un objeto con sus secciones.
type SiteResponse struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Address   string            `json:"address"`
	Status    string            `json:"status"`
	Sections  []SectionResponse `json:"sections"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// CreateSectionRequest entrada para crear una sección. Type vacío = GENERAL.
type CreateSectionRequest struct {
	Name               string `json:"name" validate:"required,min=1,max=200"`
	ConstructionSiteID int64  `json:"constructionSiteId" validate:"required"`
	Type               string `json:"type" validate:"omitempty,oneof=ELECTRICAL PLUMBING HVAC FINISHING GENERAL"`
}

// UpdateSectionRequest entrada para actualizar una sección.
type UpdateSectionRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=200"`
	Type *string `json:"type" validate:"omitempty,oneof=ELECTRICAL PLUMBING HVAC FINISHING GENERAL"`
}

// SectionResponse salida de una sección.
type SectionResponse struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	ConstructionSiteID int64     `json:"constructionSiteId"`
	SiteName           string    `json:"siteName,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
