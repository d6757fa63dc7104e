package entity

import "time"

// AuditLog registra quién hizo qué sobre qué módulo.
type AuditLog struct {
	ID          string
	ActorID     string
	Module      string // inventory, procurement, orders
	Action      string // CREATE, APPROVE, REJECT, CONVERT, RECEIVE, ISSUE, ADJUST
	Description string
	CreatedAt   time.Time
}
