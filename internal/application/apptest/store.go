// Package apptest provee repositorios en memoria y un TxRunner con semántica de
// rollback para los tests de los casos de uso. El runner serializa las unidades
// de trabajo con un mutex, igual que lo haría el bloqueo de filas en PostgreSQL.
package apptest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Store es el estado compartido de todos los repositorios en memoria.
type Store struct {
	mu sync.Mutex // serializa las unidades de trabajo (TxRunner)

	Items          map[string]entity.Item
	Movements      map[string]entity.StockMovement
	Orders         map[string]entity.SalesOrder
	Requirements   map[string]entity.StockRequirement
	Requisitions   map[string]entity.PurchaseRequisition
	PurchaseOrders map[string]entity.PurchaseOrder
	Suppliers      map[string]entity.Supplier
	Users          map[string]entity.User
	Sequences      map[string]int

	// ItemLocks cuenta los GetForUpdate por ítem, para verificar que los flujos
	// que deben serializar sobre la fila del ítem realmente toman el lock.
	ItemLocks map[string]int

	auditMu sync.Mutex
	Audits  []entity.AuditLog
}

// NewStore crea un estado vacío.
func NewStore() *Store {
	return &Store{
		Items:          map[string]entity.Item{},
		Movements:      map[string]entity.StockMovement{},
		Orders:         map[string]entity.SalesOrder{},
		Requirements:   map[string]entity.StockRequirement{},
		Requisitions:   map[string]entity.PurchaseRequisition{},
		PurchaseOrders: map[string]entity.PurchaseOrder{},
		Suppliers:      map[string]entity.Supplier{},
		Users:          map[string]entity.User{},
		Sequences:      map[string]int{},
		ItemLocks:      map[string]int{},
	}
}

// Repos devuelve el conjunto de repositorios sobre este store.
func (s *Store) Repos() inventory.TxRepos {
	return inventory.TxRepos{
		Items:          &ItemRepo{s: s},
		Movements:      &MovementRepo{s: s},
		Requirements:   &RequirementRepo{s: s},
		Orders:         &OrderRepo{s: s},
		PurchaseOrders: &PurchaseOrderRepo{s: s},
		Requisitions:   &RequisitionRepo{s: s},
		Suppliers:      &SupplierRepo{s: s},
		Sequences:      &SequenceRepo{s: s},
		Audit:          &AuditRepo{s: s},
	}
}

// TxRunner implementa inventory.TxRunner: toma el lock, saca un snapshot y, si fn
// falla, lo restaura completo. Ninguna escritura parcial queda visible.
type TxRunner struct {
	S *Store
}

// Run ejecuta fn como unidad de trabajo atómica.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()

	snap := r.S.snapshot()
	if err := fn(r.S.Repos()); err != nil {
		r.S.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	items          map[string]entity.Item
	movements      map[string]entity.StockMovement
	orders         map[string]entity.SalesOrder
	requirements   map[string]entity.StockRequirement
	requisitions   map[string]entity.PurchaseRequisition
	purchaseOrders map[string]entity.PurchaseOrder
	suppliers      map[string]entity.Supplier
	sequences      map[string]int
}

func (s *Store) snapshot() storeSnapshot {
	return storeSnapshot{
		items:          copyMap(s.Items),
		movements:      copyMap(s.Movements),
		orders:         copyOrders(s.Orders),
		requirements:   copyMap(s.Requirements),
		requisitions:   copyMap(s.Requisitions),
		purchaseOrders: copyMap(s.PurchaseOrders),
		suppliers:      copyMap(s.Suppliers),
		sequences:      copyMap(s.Sequences),
	}
}

func (s *Store) restore(snap storeSnapshot) {
	s.Items = snap.items
	s.Movements = snap.movements
	s.Orders = snap.orders
	s.Requirements = snap.requirements
	s.Requisitions = snap.requisitions
	s.PurchaseOrders = snap.purchaseOrders
	s.Suppliers = snap.suppliers
	s.Sequences = snap.sequences
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyOrders(m map[string]entity.SalesOrder) map[string]entity.SalesOrder {
	out := make(map[string]entity.SalesOrder, len(m))
	for k, v := range m {
		v.Lines = append([]entity.SalesOrderLine(nil), v.Lines...)
		out[k] = v
	}
	return out
}

// ── Repositorios ─────────────────────────────────────────────────────────────

// ItemRepo repositorio de ítems en memoria.
type ItemRepo struct{ s *Store }

var _ repository.ItemRepository = (*ItemRepo)(nil)

func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	r.s.Items[item.ID] = *item
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	if it, ok := r.s.Items[id]; ok {
		return &it, nil
	}
	return nil, nil
}

func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	for _, it := range r.s.Items {
		if it.SKU == sku {
			return &it, nil
		}
	}
	return nil, nil
}

func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	r.s.ItemLocks[id]++
	return r.GetByID(ctx, id)
}

func (r *ItemRepo) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range r.s.Items {
		if onlyActive && !it.Active {
			continue
		}
		it := it
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	r.s.Items[item.ID] = *item
	return nil
}

func (r *ItemRepo) UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error {
	it := r.s.Items[id]
	it.Quantity = quantity
	r.s.Items[id] = it
	return nil
}

func (r *ItemRepo) ListAtOrBelowReorder(ctx context.Context) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range r.s.Items {
		if it.Active && it.Quantity.LessThanOrEqual(it.ReorderLevel) {
			it := it
			out = append(out, &it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

// MovementRepo repositorio del libro de movimientos en memoria.
type MovementRepo struct{ s *Store }

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	r.s.Movements[m.ID] = *m
	return nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	if m, ok := r.s.Movements[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (r *MovementRepo) ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.Movements {
		if m.ItemID != itemID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MovementRepo) SumByItem(ctx context.Context, itemID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.s.Movements {
		if m.ItemID == itemID {
			sum = sum.Add(m.Signed())
		}
	}
	return sum, nil
}

// OrderRepo repositorio de pedidos de venta en memoria.
type OrderRepo struct{ s *Store }

var _ repository.SalesOrderRepository = (*OrderRepo)(nil)

func (r *OrderRepo) Create(ctx context.Context, order *entity.SalesOrder) error {
	cp := *order
	cp.Lines = append([]entity.SalesOrderLine(nil), order.Lines...)
	r.s.Orders[order.ID] = cp
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	if o, ok := r.s.Orders[id]; ok {
		o.Lines = append([]entity.SalesOrderLine(nil), o.Lines...)
		return &o, nil
	}
	return nil, nil
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.SalesOrder, error) {
	var out []*entity.SalesOrder
	for _, o := range r.s.Orders {
		if status != "" && o.Status != status {
			continue
		}
		o := o
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	o := r.s.Orders[id]
	o.Status = status
	o.UpdatedAt = time.Now()
	r.s.Orders[id] = o
	return nil
}

// RequirementRepo repositorio de requerimientos en memoria.
type RequirementRepo struct{ s *Store }

var _ repository.StockRequirementRepository = (*RequirementRepo)(nil)

func (r *RequirementRepo) Create(ctx context.Context, req *entity.StockRequirement) error {
	r.s.Requirements[req.ID] = *req
	return nil
}

func (r *RequirementRepo) GetByID(ctx context.Context, id string) (*entity.StockRequirement, error) {
	if req, ok := r.s.Requirements[id]; ok {
		return &req, nil
	}
	return nil, nil
}

func (r *RequirementRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.StockRequirement, error) {
	var out []*entity.StockRequirement
	for _, req := range r.s.Requirements {
		if req.OrderID == orderID {
			req := req
			out = append(out, &req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *RequirementRepo) ListOpenByItem(ctx context.Context, itemID string) ([]*entity.StockRequirement, error) {
	var out []*entity.StockRequirement
	for _, req := range r.s.Requirements {
		if req.ItemID != itemID || req.Status == entity.RequirementFulfilled {
			continue
		}
		order, ok := r.s.Orders[req.OrderID]
		if !ok || order.Status != entity.SalesOrderPending {
			continue
		}
		req := req
		out = append(out, &req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *RequirementRepo) Update(ctx context.Context, req *entity.StockRequirement) error {
	r.s.Requirements[req.ID] = *req
	return nil
}

func (r *RequirementRepo) UpdateStatus(ctx context.Context, id, status string) error {
	req := r.s.Requirements[id]
	req.Status = status
	req.UpdatedAt = time.Now()
	r.s.Requirements[id] = req
	return nil
}

func (r *RequirementRepo) Delete(ctx context.Context, id string) error {
	delete(r.s.Requirements, id)
	return nil
}

func (r *RequirementRepo) DeleteByOrder(ctx context.Context, orderID string) error {
	for id, req := range r.s.Requirements {
		if req.OrderID == orderID {
			delete(r.s.Requirements, id)
		}
	}
	return nil
}

// RequisitionRepo repositorio de requisiciones en memoria.
type RequisitionRepo struct{ s *Store }

var _ repository.PurchaseRequisitionRepository = (*RequisitionRepo)(nil)

func (r *RequisitionRepo) Create(ctx context.Context, pr *entity.PurchaseRequisition) error {
	r.s.Requisitions[pr.ID] = *pr
	return nil
}

func (r *RequisitionRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseRequisition, error) {
	if pr, ok := r.s.Requisitions[id]; ok {
		return &pr, nil
	}
	return nil, nil
}

func (r *RequisitionRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseRequisition, error) {
	return r.GetByID(ctx, id)
}

func (r *RequisitionRepo) FindActiveForUpdate(ctx context.Context, itemID string, salesOrderID *string) (*entity.PurchaseRequisition, error) {
	for _, pr := range r.s.Requisitions {
		if pr.ItemID != itemID || !pr.Active() {
			continue
		}
		if salesOrderID == nil {
			if pr.SalesOrderID == nil {
				pr := pr
				return &pr, nil
			}
			continue
		}
		if pr.SalesOrderID != nil && *pr.SalesOrderID == *salesOrderID {
			pr := pr
			return &pr, nil
		}
	}
	return nil, nil
}

func (r *RequisitionRepo) List(ctx context.Context, status, urgency string, limit, offset int) ([]*entity.PurchaseRequisition, error) {
	var out []*entity.PurchaseRequisition
	for _, pr := range r.s.Requisitions {
		if status != "" && pr.Status != status {
			continue
		}
		if urgency != "" && pr.Urgency != urgency {
			continue
		}
		pr := pr
		out = append(out, &pr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *RequisitionRepo) Update(ctx context.Context, pr *entity.PurchaseRequisition) error {
	r.s.Requisitions[pr.ID] = *pr
	return nil
}

// PurchaseOrderRepo repositorio de órdenes de compra en memoria.
type PurchaseOrderRepo struct{ s *Store }

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	r.s.PurchaseOrders[po.ID] = *po
	return nil
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	if po, ok := r.s.PurchaseOrders[id]; ok {
		return &po, nil
	}
	return nil, nil
}

func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseOrderRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, po := range r.s.PurchaseOrders {
		if status != "" && po.Status != status {
			continue
		}
		po := po
		out = append(out, &po)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	r.s.PurchaseOrders[po.ID] = *po
	return nil
}

// SupplierRepo repositorio de proveedores en memoria.
type SupplierRepo struct{ s *Store }

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

func (r *SupplierRepo) Create(ctx context.Context, sp *entity.Supplier) error {
	r.s.Suppliers[sp.ID] = *sp
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	if sp, ok := r.s.Suppliers[id]; ok {
		return &sp, nil
	}
	return nil, nil
}

func (r *SupplierRepo) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, sp := range r.s.Suppliers {
		if onlyActive && !sp.Active {
			continue
		}
		sp := sp
		out = append(out, &sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *SupplierRepo) Update(ctx context.Context, sp *entity.Supplier) error {
	r.s.Suppliers[sp.ID] = *sp
	return nil
}

// SequenceRepo consecutivos en memoria.
type SequenceRepo struct{ s *Store }

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

func (r *SequenceRepo) Next(ctx context.Context, docType string, year int) (int, error) {
	key := fmt.Sprintf("%s-%d", docType, year)
	r.s.Sequences[key]++
	return r.s.Sequences[key], nil
}

// AuditRepo rastro de auditoría en memoria. Tiene su propio lock porque las
// escrituras post-commit llegan fuera de la unidad de trabajo.
type AuditRepo struct{ s *Store }

var _ repository.AuditRepository = (*AuditRepo)(nil)

func (r *AuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	r.s.auditMu.Lock()
	defer r.s.auditMu.Unlock()
	r.s.Audits = append(r.s.Audits, *log)
	return nil
}
