package entity

import "time"

// Estados de un objeto de construcción.
const (
	SiteStatusActive    = "ACTIVE"
	SiteStatusCompleted = "COMPLETED"
	SiteStatusSuspended = "SUSPENDED"
)

// IsValidSiteStatus indica si s es un estado admitido.
func IsValidSiteStatus(s string) bool {
	switch s {
	case SiteStatusActive, SiteStatusCompleted, SiteStatusSuspended:
		return true
	}
	return false
}

// ConstructionSite objeto de construcción; agrupa secciones.
type ConstructionSite struct {
	ID        int64
	Name      string
	Address   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
