package trade

// Status is the lifecycle state of a trade. Transitions only move forward:
// PENDING -> ACTIVE -> CLOSED, and CLOSED is terminal.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusClosed  Status = "closed"
)
