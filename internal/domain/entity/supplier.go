package entity

import "time"

// Supplier proveedor de materiales.
type Supplier struct {
	ID            int64
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
