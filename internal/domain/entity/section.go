package entity

import "time"

// Tipos de sección (especialidad de obra).
const (
	SectionTypeElectrical = "ELECTRICAL"
	SectionTypePlumbing   = "PLUMBING"
	SectionTypeHVAC       = "HVAC"
	SectionTypeFinishing  = "FINISHING"
	SectionTypeGeneral    = "GENERAL"
)

// IsValidSectionType indica si t es un tipo de sección admitido.
func IsValidSectionType(t string) bool {
	switch t {
	case SectionTypeElectrical, SectionTypePlumbing, SectionTypeHVAC, SectionTypeFinishing, SectionTypeGeneral:
		return true
	}
	return false
}

// Section parte de un objeto de construcción a la que se traslada material.
type Section struct {
	ID                 int64
	Name               string
	Type               string
	ConstructionSiteID int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
