package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// Shortage calcula el faltante: max(0, requerido - disponible).
func Shortage(required, available decimal.Decimal) decimal.Decimal {
	s := required.Sub(available)
	if s.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return s
}

// ClassifyRequirement clasifica un requerimiento según su faltante (servicio de dominio).
// faltante 0 → SUFFICIENT; 0 < faltante <= nivelReorden → SHORTAGE; mayor → CRITICAL.
// El nivel de reorden actúa como umbral de severidad, no solo como disparador de reposición.
func ClassifyRequirement(required, available, reorderLevel decimal.Decimal) string {
	shortage := Shortage(required, available)
	switch {
	case shortage.IsZero():
		return entity.RequirementSufficient
	case shortage.LessThanOrEqual(reorderLevel):
		return entity.RequirementShortage
	default:
		return entity.RequirementCritical
	}
}

// UrgencyPolicy parametriza el cálculo de urgencia de requisiciones.
// Los umbrales son política de negocio, no propiedad derivada: se cargan de configuración.
type UrgencyPolicy struct {
	DeadlineCriticalDays   int             // fecha comprometida a <= N días fuerza CRITICAL
	DeadlineHighDays       int             // fecha comprometida a <= N días sube MEDIUM a HIGH
	CriticalShortageFactor decimal.Decimal // faltante >= factor * nivelReorden → CRITICAL
}

// DefaultUrgencyPolicy valores usados si la configuración no los define.
func DefaultUrgencyPolicy() UrgencyPolicy {
	return UrgencyPolicy{
		DeadlineCriticalDays:   7,
		DeadlineHighDays:       14,
		CriticalShortageFactor: decimal.NewFromInt(2),
	}
}

// rank ordena los niveles para que la señal de fecha solo pueda subir la urgencia.
var rank = map[string]int{
	entity.UrgencyLow:      0,
	entity.UrgencyMedium:   1,
	entity.UrgencyHigh:     2,
	entity.UrgencyCritical: 3,
}

// Score combina la magnitud del faltante (relativa al nivel de reorden) con la
// proximidad de la fecha comprometida del pedido. La señal de fecha nunca baja la urgencia.
func (p UrgencyPolicy) Score(shortage, reorderLevel decimal.Decimal, promised *time.Time, now time.Time) string {
	urgency := p.shortageSignal(shortage, reorderLevel)

	if promised != nil {
		days := promised.Sub(now).Hours() / 24
		switch {
		case days <= float64(p.DeadlineCriticalDays):
			urgency = raise(urgency, entity.UrgencyCritical)
		case days <= float64(p.DeadlineHighDays):
			if urgency == entity.UrgencyMedium {
				urgency = entity.UrgencyHigh
			}
		}
	}
	return urgency
}

func (p UrgencyPolicy) shortageSignal(shortage, reorderLevel decimal.Decimal) string {
	switch {
	case !shortage.GreaterThan(decimal.Zero):
		return entity.UrgencyLow
	case shortage.GreaterThanOrEqual(reorderLevel.Mul(p.CriticalShortageFactor)):
		return entity.UrgencyCritical
	case shortage.GreaterThanOrEqual(reorderLevel):
		return entity.UrgencyHigh
	default:
		return entity.UrgencyMedium
	}
}

func raise(current, candidate string) string {
	if rank[candidate] > rank[current] {
		return candidate
	}
	return current
}
