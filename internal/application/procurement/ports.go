package procurement

import "github.com/jhoicas/Almacen-api/internal/application/inventory"

// TxRunner reutiliza la unidad de trabajo del motor de inventario: las requisiciones
// comparten transacción con los repositorios de stock y numeración.
type TxRunner = inventory.TxRunner
