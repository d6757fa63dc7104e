package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/procurement"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// RequisitionHandler maneja requisiciones de compra, su flujo de aprobación,
// las órdenes de compra resultantes y la recepción de mercancía (protegido).
type RequisitionHandler struct {
	generate *procurement.GenerateUseCase
	workflow *procurement.WorkflowUseCase
	receipt  *inventory.ReceiptUseCase
}

// NewRequisitionHandler construye el handler.
func NewRequisitionHandler(generate *procurement.GenerateUseCase, workflow *procurement.WorkflowUseCase, receipt *inventory.ReceiptUseCase) *RequisitionHandler {
	return &RequisitionHandler{generate: generate, workflow: workflow, receipt: receipt}
}

// Generate godoc
// @Summary      Generar requisición desde un faltante
// @Description  Crea una requisición PENDING por el faltante del requerimiento indicado. Si ya existe una activa para el mismo ítem y pedido responde 409 con su número.
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateRequisitionRequest  true  "requirement_id, reason (opcional)"
// @Success      201   {object}  dto.RequisitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requisitions [post]
func (h *RequisitionHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateRequisitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	pr, err := h.generate.GenerateFromShortage(c.Context(), GetActor(c), in.RequirementID, in.Reason)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRequisitionResponse(pr))
}

// List godoc
// @Summary      Listar requisiciones
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        status   query  string  false  "PENDING | APPROVED | REJECTED | CONVERTED"
// @Param        urgency  query  string  false  "LOW | MEDIUM | HIGH | CRITICAL"
// @Success      200  {array}  dto.RequisitionResponse
// @Router       /api/requisitions [get]
func (h *RequisitionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.workflow.List(c.Context(), c.Query("status"), c.Query("urgency"), page.Limit, page.Offset)
	if err != nil {
		return mapError(c, err)
	}
	out := make([]*dto.RequisitionResponse, 0, len(list))
	for _, pr := range list {
		out = append(out, toRequisitionResponse(pr))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener requisición
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la requisición"
// @Success      200  {object}  dto.RequisitionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id} [get]
func (h *RequisitionHandler) GetByID(c *fiber.Ctx) error {
	pr, err := h.workflow.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(toRequisitionResponse(pr))
}

// Approve godoc
// @Summary      Aprobar requisición
// @Description  Solo requisiciones PENDING. Registra aprobador y fecha.
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la requisición"
// @Success      200  {object}  dto.RequisitionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/approve [post]
func (h *RequisitionHandler) Approve(c *fiber.Ctx) error {
	pr, err := h.workflow.Approve(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(toRequisitionResponse(pr))
}

// Reject godoc
// @Summary      Rechazar requisición
// @Description  Solo requisiciones PENDING. El motivo es obligatorio.
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la requisición"
// @Param        body  body  dto.RejectRequisitionRequest true  "reason"
// @Success      200   {object}  dto.RequisitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/reject [post]
func (h *RequisitionHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequisitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	pr, err := h.workflow.Reject(c.Context(), GetActor(c), c.Params("id"), in.Reason)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(toRequisitionResponse(pr))
}

// Convert godoc
// @Summary      Convertir requisición en orden de compra
// @Description  Solo requisiciones APPROVED. El precio unitario por defecto es el de catálogo del ítem.
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la requisición"
// @Param        body  body  dto.ConvertRequisitionRequest true  "supplier_id, unit_price (opcional), expected_date (opcional)"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/convert [post]
func (h *RequisitionHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertRequisitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	po, err := h.workflow.ConvertToPurchaseOrder(c.Context(), GetActor(c), procurement.ConvertInputDTO{
		RequisitionID: c.Params("id"),
		SupplierID:    in.SupplierID,
		UnitPrice:     in.UnitPrice,
		ExpectedDate:  in.ExpectedDate,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseOrderResponse(po))
}

// ListPurchaseOrders godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING | DELIVERED | CANCELLED"
// @Success      200  {array}  dto.PurchaseOrderResponse
// @Router       /api/purchase-orders [get]
func (h *RequisitionHandler) ListPurchaseOrders(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.workflow.ListPurchaseOrders(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return mapError(c, err)
	}
	out := make([]*dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		out = append(out, toPurchaseOrderResponse(po))
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Recibir orden de compra
// @Description  Aplica el movimiento IN, marca la orden DELIVERED y corre la cascada de reconciliación sobre los requerimientos abiertos del ítem. Una orden ya entregada responde 409.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true   "ID de la orden de compra"
// @Param        body  body  dto.ReceiveGoodsRequest false  "quantity (opcional, default la de la orden)"
// @Success      200   {object}  dto.ReceiveGoodsResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *RequisitionHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveGoodsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	result, err := h.receipt.ReceiveGoods(c.Context(), GetActor(c), c.Params("id"), in.Quantity)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.ReceiveGoodsResponse{
		PurchaseOrderID:      result.PurchaseOrderID,
		ItemID:               result.ItemID,
		PreviousQuantity:     result.PreviousQuantity,
		NewQuantity:          result.NewQuantity,
		RequirementsResolved: result.RequirementsResolved,
	})
}

func toRequisitionResponse(pr *entity.PurchaseRequisition) *dto.RequisitionResponse {
	return &dto.RequisitionResponse{
		ID:              pr.ID,
		Number:          pr.Number,
		ItemID:          pr.ItemID,
		SalesOrderID:    pr.SalesOrderID,
		Quantity:        pr.Quantity,
		Urgency:         pr.Urgency,
		Status:          pr.Status,
		Source:          pr.Source,
		Reason:          pr.Reason,
		RequestedBy:     pr.RequestedBy,
		ApprovedBy:      pr.ApprovedBy,
		ApprovedAt:      pr.ApprovedAt,
		RejectionReason: pr.RejectionReason,
		PurchaseOrderID: pr.PurchaseOrderID,
		CreatedAt:       pr.CreatedAt,
	}
}

func toPurchaseOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	return &dto.PurchaseOrderResponse{
		ID:            po.ID,
		Number:        po.Number,
		SupplierID:    po.SupplierID,
		ItemID:        po.ItemID,
		Quantity:      po.Quantity,
		UnitPrice:     po.UnitPrice,
		Status:        po.Status,
		RequisitionID: po.RequisitionID,
		ExpectedDate:  po.ExpectedDate,
		DeliveredAt:   po.DeliveredAt,
		CreatedAt:     po.CreatedAt,
	}
}
