package notify

import (
	"context"
	"time"
)

// Event is one log-style notification about an accepted shift transition.
// Delivery is best-effort: a failed send never rolls back or blocks the
// transition that produced it.
type Event struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Color        int       `json:"color"`
	ActorID      string    `json:"actorId"`
	DepartmentID string    `json:"departmentId"`
	OccurredAt   time.Time `json:"occurredAt"`
}

type Sink interface {
	Send(ctx context.Context, event Event) error
}
