package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	dominv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Shortage
// ──────────────────────────────────────────────────────────────────────────────

func TestShortage_DisponibleCubreRequerido(t *testing.T) {
	assert.True(t, dominv.Shortage(dec("10"), dec("10")).IsZero())
	assert.True(t, dominv.Shortage(dec("10"), dec("25")).IsZero(), "el faltante nunca es negativo")
}

func TestShortage_FaltanteParcial(t *testing.T) {
	assert.True(t, dominv.Shortage(dec("10"), dec("3.5")).Equal(dec("6.5")))
}

// ──────────────────────────────────────────────────────────────────────────────
// ClassifyRequirement
// ──────────────────────────────────────────────────────────────────────────────

func TestClassifyRequirement_SegunFaltante(t *testing.T) {
	reorder := dec("5")

	assert.Equal(t, entity.RequirementSufficient, dominv.ClassifyRequirement(dec("10"), dec("10"), reorder))
	assert.Equal(t, entity.RequirementShortage, dominv.ClassifyRequirement(dec("10"), dec("6"), reorder),
		"faltante 4 <= nivel de reorden 5")
	assert.Equal(t, entity.RequirementShortage, dominv.ClassifyRequirement(dec("10"), dec("5"), reorder),
		"faltante igual al nivel de reorden sigue siendo SHORTAGE")
	assert.Equal(t, entity.RequirementCritical, dominv.ClassifyRequirement(dec("10"), dec("4"), reorder),
		"faltante 6 > nivel de reorden 5")
}

func TestClassifyRequirement_NivelReordenCero(t *testing.T) {
	// Con nivel de reorden cero cualquier faltante positivo es CRITICAL,
	// consistente con que el nivel actúa como umbral de severidad.
	assert.Equal(t, entity.RequirementCritical, dominv.ClassifyRequirement(dec("1"), dec("0"), decimal.Zero))
	assert.Equal(t, entity.RequirementSufficient, dominv.ClassifyRequirement(dec("1"), dec("1"), decimal.Zero))
}

// ──────────────────────────────────────────────────────────────────────────────
// UrgencyPolicy.Score
// ──────────────────────────────────────────────────────────────────────────────

func TestScore_SoloMagnitudDelFaltante(t *testing.T) {
	p := dominv.DefaultUrgencyPolicy()
	now := time.Now()
	reorder := dec("10")

	assert.Equal(t, entity.UrgencyLow, p.Score(decimal.Zero, reorder, nil, now))
	assert.Equal(t, entity.UrgencyMedium, p.Score(dec("5"), reorder, nil, now))
	assert.Equal(t, entity.UrgencyHigh, p.Score(dec("10"), reorder, nil, now),
		"faltante igual al nivel de reorden")
	assert.Equal(t, entity.UrgencyCritical, p.Score(dec("20"), reorder, nil, now),
		"faltante >= 2x el nivel de reorden")
}

func TestScore_FechaComprometidaSoloSubeLaUrgencia(t *testing.T) {
	p := dominv.DefaultUrgencyPolicy()
	now := time.Now()
	reorder := dec("10")

	soon := now.Add(3 * 24 * time.Hour)    // dentro de la ventana crítica (7 días)
	nearby := now.Add(10 * 24 * time.Hour) // dentro de la ventana alta (14 días)
	far := now.Add(60 * 24 * time.Hour)

	// Ventana crítica fuerza CRITICAL sin importar la magnitud
	assert.Equal(t, entity.UrgencyCritical, p.Score(dec("1"), reorder, &soon, now))

	// Ventana alta sube MEDIUM a HIGH
	assert.Equal(t, entity.UrgencyHigh, p.Score(dec("5"), reorder, &nearby, now))

	// Pero nunca baja: un faltante CRITICAL sigue CRITICAL con fecha lejana
	assert.Equal(t, entity.UrgencyCritical, p.Score(dec("20"), reorder, &far, now))

	// Y una fecha lejana no toca la señal de magnitud
	assert.Equal(t, entity.UrgencyMedium, p.Score(dec("5"), reorder, &far, now))
}

func TestScore_NivelReordenCeroConFaltante(t *testing.T) {
	p := dominv.DefaultUrgencyPolicy()
	// shortage >= 0 * factor siempre se cumple: cualquier faltante es CRITICAL,
	// igual que la clasificación del requerimiento.
	assert.Equal(t, entity.UrgencyCritical, p.Score(dec("1"), decimal.Zero, nil, time.Now()))
}
