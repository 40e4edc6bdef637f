package dto

import (
	"strings"
	"time"
)

// ErrorResponse cuerpo de error HTTP. Details solo fuera de producción.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}

const dateLayout = "2006-01-02"

// ParseDate acepta "YYYY-MM-DD" o RFC3339. dateOnly indica que vino sin hora.
func ParseDate(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if t, err = time.Parse(dateLayout, s); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	return t, false, err
}
