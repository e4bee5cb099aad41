package shared

import "github.com/google/uuid"

// Role is a user capability set.
type Role string

const (
	RoleDonor     Role = "DONOR"
	RoleCollector Role = "COLLECTOR"
	RoleAdmin     Role = "ADMIN"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleDonor, RoleCollector, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Actor identifies the caller of a service operation.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Task types processed by cmd/worker.
const (
	TypeLedgerReconcile         = "ledger:reconcile"
	TypeCleanupOldNotifications = "notification:cleanup_old"
)

// Queues, highest priority first.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// ReconcilePayload is the body of TypeLedgerReconcile.
// An empty UserID reconciles every user.
type ReconcilePayload struct {
	UserID      string `json:"userId,omitempty"`
	RequestedBy string `json:"requestedBy,omitempty"`
}

// CleanupPayload overrides the configured retention when Days > 0.
type CleanupPayload struct {
	Days int `json:"days"`
}
