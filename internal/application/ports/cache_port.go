package ports

import "context"

// CacheInvalidator invalida las vistas derivadas (informes, saldos) tras una escritura en el libro
// de movimientos. Implementado por analytics.Cache; nil = sin caché.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}
