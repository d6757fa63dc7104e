package entity

// Actor identifica a quién ejecuta una operación del núcleo: un usuario humano
// o el actor de sistema usado por los procesos automáticos (barrido de stock bajo).
type Actor struct {
	ID     string
	Name   string
	System bool
}

// SystemActor es la identidad fija de los procesos automáticos.
var SystemActor = Actor{ID: "00000000-0000-0000-0000-000000000000", Name: "sistema", System: true}
