package notify

import (
	"sync"

	"github.com/jhoicas/Almacen-api/internal/application/notify"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

var _ notify.Notifier = (*Dispatcher)(nil)

// Dispatcher despacha eventos de notificación en segundo plano.
// Encola en un buffer y un worker los registra/entrega; si el buffer está lleno
// el evento se descarta con un warning. Nunca bloquea al llamador ni devuelve error.
type Dispatcher struct {
	events chan any
	log    *logger.Logger
	wg     sync.WaitGroup
	once   sync.Once
}

// NewDispatcher crea el despachador y arranca su worker.
func NewDispatcher(buffer int, log *logger.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	d := &Dispatcher{
		events: make(chan any, buffer),
		log:    log.Component("notify"),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Close cierra la cola y espera a que el worker drene lo pendiente.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.events) })
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for ev := range d.events {
		d.deliver(ev)
	}
}

// deliver entrega un evento. Hoy el transporte es el log estructurado;
// aquí se conectaría email/webhook sin tocar el núcleo.
func (d *Dispatcher) deliver(ev any) {
	switch e := ev.(type) {
	case notify.RequisitionCreatedEvent:
		d.log.Info().
			Str("requisition", e.RequisitionNumber).
			Str("sku", e.SKU).
			Str("urgency", e.Urgency).
			Str("quantity", e.Quantity.String()).
			Str("sales_order", e.SalesOrderNumber).
			Msg("requisición urgente creada")
	case notify.ShortageResolvedEvent:
		d.log.Info().
			Str("sku", e.SKU).
			Str("sales_order", e.SalesOrderNumber).
			Str("customer", e.CustomerName).
			Str("required", e.Required.String()).
			Str("available", e.Available.String()).
			Msg("faltante resuelto")
	case notify.LowStockBatchEvent:
		d.log.Info().
			Int("items_checked", e.ItemsChecked).
			Int("requisitions_created", e.RequisitionsCreated).
			Strs("numbers", e.Numbers).
			Msg("barrido de stock bajo")
	case notify.PurchaseOrderDeliveredEvent:
		d.log.Info().
			Str("purchase_order", e.PurchaseOrderNumber).
			Str("sku", e.SKU).
			Str("received", e.ReceivedQuantity.String()).
			Str("new_quantity", e.NewQuantity.String()).
			Int("requirements_closed", e.RequirementsClosed).
			Msg("orden de compra recibida")
	}
}

func (d *Dispatcher) enqueue(ev any) {
	select {
	case d.events <- ev:
	default:
		d.log.Warn().Msg("buffer de notificaciones lleno, evento descartado")
	}
}

// RequisitionCreated implementa notify.Notifier.
func (d *Dispatcher) RequisitionCreated(ev notify.RequisitionCreatedEvent) { d.enqueue(ev) }

// ShortageResolved implementa notify.Notifier.
func (d *Dispatcher) ShortageResolved(ev notify.ShortageResolvedEvent) { d.enqueue(ev) }

// LowStockBatch implementa notify.Notifier.
func (d *Dispatcher) LowStockBatch(ev notify.LowStockBatchEvent) { d.enqueue(ev) }

// PurchaseOrderDelivered implementa notify.Notifier.
func (d *Dispatcher) PurchaseOrderDelivered(ev notify.PurchaseOrderDeliveredEvent) { d.enqueue(ev) }
