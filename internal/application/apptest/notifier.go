package apptest

import (
	"sync"

	"github.com/jhoicas/Almacen-api/internal/application/notify"
)

// RecordingNotifier captura los eventos emitidos para poder afirmarlos en tests.
type RecordingNotifier struct {
	mu sync.Mutex

	RequisitionsCreated []notify.RequisitionCreatedEvent
	ShortagesResolved   []notify.ShortageResolvedEvent
	LowStockBatches     []notify.LowStockBatchEvent
	Deliveries          []notify.PurchaseOrderDeliveredEvent
}

var _ notify.Notifier = (*RecordingNotifier)(nil)

func (n *RecordingNotifier) RequisitionCreated(ev notify.RequisitionCreatedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.RequisitionsCreated = append(n.RequisitionsCreated, ev)
}

func (n *RecordingNotifier) ShortageResolved(ev notify.ShortageResolvedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ShortagesResolved = append(n.ShortagesResolved, ev)
}

func (n *RecordingNotifier) LowStockBatch(ev notify.LowStockBatchEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.LowStockBatches = append(n.LowStockBatches, ev)
}

func (n *RecordingNotifier) PurchaseOrderDelivered(ev notify.PurchaseOrderDeliveredEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Deliveries = append(n.Deliveries, ev)
}
