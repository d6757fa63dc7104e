package repository

import "context"

// Tipos de documento con numeración consecutiva por año calendario.
const (
	DocTypeRequisition   = "REQ"
	DocTypePurchaseOrder = "OC"
	DocTypeSalesOrder    = "PV"
)

// SequenceRepository asigna consecutivos legibles por tipo de documento y año.
// Next debe correr dentro de la misma tx que el insert del documento y serializar
// la asignación (fila bloqueada), para que no colisione bajo generación concurrente.
type SequenceRepository interface {
	Next(ctx context.Context, docType string, year int) (int, error)
}
