package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/orders"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// OrderHandler maneja pedidos de venta, sus requerimientos y el despacho (protegido).
type OrderHandler struct {
	uc    *orders.SalesOrderUseCase
	issue *inventory.IssueUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.SalesOrderUseCase, issue *inventory.IssueUseCase) *OrderHandler {
	return &OrderHandler{uc: uc, issue: issue}
}

// Create godoc
// @Summary      Crear pedido de venta
// @Description  Registra el pedido PENDING y calcula sus requerimientos de stock en la misma transacción.
// @Tags         sales-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "customer_name, lines, promised_date (opcional)"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales-orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := orders.CreateOrderInputDTO{
		CustomerName: in.CustomerName,
		PromisedDate: in.PromisedDate,
		Notes:        in.Notes,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, orders.OrderLineInputDTO{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	order, err := h.uc.Create(c.Context(), GetActor(c), input)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// List godoc
// @Summary      Listar pedidos de venta
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING | COMPLETED | CANCELLED"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/sales-orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return mapError(c, err)
	}
	out := make([]*dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderResponse(o))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido de venta
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Requirements godoc
// @Summary      Requerimientos de stock del pedido
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {array}   dto.RequirementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/requirements [get]
func (h *OrderHandler) Requirements(c *fiber.Ctx) error {
	reqs, err := h.uc.Requirements(c.Context(), c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(toRequirementResponses(reqs))
}

// Recalculate godoc
// @Summary      Recalcular requerimientos del pedido
// @Description  Reconstruye el snapshot requerido-vs-disponible de cada línea con el stock actual. Idempotente: sin cambios de stock ni de líneas, no escribe nada.
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {array}   dto.RequirementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/recalculate [post]
func (h *OrderHandler) Recalculate(c *fiber.Ctx) error {
	reqs, err := h.uc.Recalculate(c.Context(), c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(toRequirementResponses(reqs))
}

// Cancel godoc
// @Summary      Cancelar pedido de venta
// @Description  Solo pedidos PENDING. Elimina sus requerimientos de stock.
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "pedido cancelado"})
}

// Issue godoc
// @Summary      Despachar pedido de venta
// @Description  Todo o nada: si alguna línea no tiene stock suficiente no se despacha ninguna. Marca los requerimientos FULFILLED y el pedido COMPLETED.
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.IssueGoodsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/issue [post]
func (h *OrderHandler) Issue(c *fiber.Ctx) error {
	result, err := h.issue.IssueGoods(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	out := dto.IssueGoodsResponse{OrderID: result.OrderID, Status: entity.SalesOrderCompleted}
	for _, m := range result.Movements {
		out.Movements = append(out.Movements, dto.IssuedMovement{
			MovementID:       m.MovementID,
			ItemID:           m.ItemID,
			PreviousQuantity: m.PreviousQuantity,
			NewQuantity:      m.NewQuantity,
		})
	}
	return c.JSON(out)
}

func toOrderResponse(o *entity.SalesOrder) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		CustomerName: o.CustomerName,
		Status:       o.Status,
		PromisedDate: o.PromisedDate,
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, dto.OrderLineResponse{ID: l.ID, ItemID: l.ItemID, Quantity: l.Quantity})
	}
	return resp
}

func toRequirementResponses(reqs []*entity.StockRequirement) []dto.RequirementResponse {
	out := make([]dto.RequirementResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, dto.RequirementResponse{
			ID:        r.ID,
			OrderID:   r.OrderID,
			ItemID:    r.ItemID,
			Required:  r.Required,
			Available: r.Available,
			Shortage:  r.Shortage,
			Status:    r.Status,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return out
}
