package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/procurement"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// InventoryHandler maneja el libro de movimientos y el barrido de stock bajo (protegido).
type InventoryHandler struct {
	ledger   *inventory.LedgerUseCase
	generate *procurement.GenerateUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, generate *procurement.GenerateUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, generate: generate}
}

// ApplyMovement godoc
// @Summary      Registrar movimiento de ajuste
// @Description  Inserta un asiento inmutable en el libro y actualiza la cantidad cacheada en la misma transacción. Una salida que dejaría stock negativo se rechaza completa.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyMovementRequest  true  "item_id, direction (IN|OUT), quantity, reference_code"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) ApplyMovement(c *fiber.Ctx) error {
	var in dto.ApplyMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.ledger.ApplyMovement(c.Context(), GetActor(c), inventory.MovementInputDTO{
		ItemID:        in.ItemID,
		Direction:     in.Direction,
		Quantity:      in.Quantity,
		ReferenceCode: in.ReferenceCode,
		Notes:         in.Notes,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"movement_id":       result.MovementID,
		"item_id":           result.ItemID,
		"previous_quantity": result.PreviousQuantity,
		"new_quantity":      result.NewQuantity,
	})
}

// ListMovements godoc
// @Summary      Kardex de un ítem
// @Description  Asientos del libro del ítem, del más reciente al más antiguo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id  path   string  true   "ID del ítem"
// @Param        from     query  string  false  "Desde (RFC3339)"
// @Param        to       query  string  false  "Hasta (RFC3339)"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{item_id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido, usar RFC3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido, usar RFC3339"})
	}
	movs, err := h.ledger.ListMovements(c.Context(), c.Params("item_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return mapError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// CheckLedger godoc
// @Summary      Verificar libro vs. cantidad cacheada
// @Description  Reconstruye la cantidad en mano sumando el libro y la compara con la cacheada del ítem.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id  path  string  true  "ID del ítem"
// @Success      200  {object}  dto.LedgerCheckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{item_id}/ledger-check [get]
func (h *InventoryHandler) CheckLedger(c *fiber.Ctx) error {
	itemID := c.Params("item_id")
	ledger, cached, err := h.ledger.ReconstructQuantity(c.Context(), itemID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.LedgerCheckResponse{
		ItemID:     itemID,
		FromLedger: ledger,
		Cached:     cached,
		Consistent: ledger.Equal(cached),
	})
}

// CheckLowStock godoc
// @Summary      Barrido de stock bajo
// @Description  Genera requisiciones AUTO para los ítems activos en o por debajo de su nivel de reorden que no tengan ya una requisición genérica activa.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LowStockSweepResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock-check [post]
func (h *InventoryHandler) CheckLowStock(c *fiber.Ctx) error {
	result, err := h.generate.CheckLowStock(c.Context())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.LowStockSweepResponse{
		ItemsChecked:        result.ItemsChecked,
		RequisitionsCreated: result.RequisitionsCreated,
		Numbers:             result.Numbers,
	})
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:               m.ID,
		ItemID:           m.ItemID,
		Direction:        m.Direction,
		Quantity:         m.Quantity,
		ReferenceType:    m.ReferenceType,
		ReferenceCode:    m.ReferenceCode,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		CreatedAt:        m.CreatedAt,
		CreatedBy:        m.CreatedBy,
	}
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
