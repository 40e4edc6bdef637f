package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// ErrDuplicateInvoiceNumber número de factura ya registrado. errors.Is(err, ErrDuplicate) es true.
var ErrDuplicateInvoiceNumber = fmt.Errorf("número de factura duplicado: %w", ErrDuplicate)

// ErrDuplicateProductCode código de producto ya registrado.
var ErrDuplicateProductCode = fmt.Errorf("código de producto duplicado: %w", ErrDuplicate)

// ErrInUse el recurso tiene referencias vivas (movimientos, facturas, secciones) y no se puede borrar.
var ErrInUse = fmt.Errorf("el recurso tiene referencias: %w", ErrConflict)
