package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo asigna consecutivos por tipo de documento y año sobre la tabla
// document_sequences. El UPDATE del upsert bloquea la fila, así dos transacciones
// que numeran el mismo documento en paralelo se serializan y no colisionan.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Debe usarse dentro de una tx.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente consecutivo para (docType, year).
func (r *SequenceRepo) Next(ctx context.Context, docType string, year int) (int, error) {
	query := `
		INSERT INTO document_sequences (doc_type, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, year)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`
	var next int
	if err := r.q.QueryRow(ctx, query, docType, year).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence %s-%d: %w", docType, year, err)
	}
	return next, nil
}
