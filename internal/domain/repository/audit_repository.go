package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// AuditRepository persiste el rastro de auditoría de las operaciones de negocio.
type AuditRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
}
