package reports

import (
	"context"
	"time"
)

// Repository: los adapters devuelven los sentinels de este paquete
// (ErrNotFound, ErrCodeTaken, ErrStatusConflict) envueltos con %w.
type Repository interface {
	Create(ctx context.Context, r Report) error
	GetByID(ctx context.Context, id string) (Report, error)
	GetByCode(ctx context.Context, code string) (Report, error)

	// Update guarda todo menos Status (ver CompareAndSetStatus).
	Update(ctx context.Context, r Report) error

	// CompareAndSetStatus cambia el estado solo si el guardado sigue siendo `from`.
	CompareAndSetStatus(ctx context.Context, id string, from, to Status, at time.Time) error

	Search(ctx context.Context, f SearchFilter) ([]Report, error)

	// ListByReporter: cargados por userID o con email de contacto igual (sin mayúsculas), más nuevos primero.
	ListByReporter(ctx context.Context, userID, email string, limit int) ([]Report, error)
	Counts(ctx context.Context) (Counts, error)

	Delete(ctx context.Context, id string) error
}

// PhotoStore guarda la foto ya procesada. Devuelve la ruta relativa que queda en el reporte.
type PhotoStore interface {
	Save(ctx context.Context, referenceCode string, data []byte) (string, error)
	Delete(ctx context.Context, referenceCode string) error
}
