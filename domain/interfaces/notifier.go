package interfaces

import (
	"context"
	"time"

	"crewdispatch/domain/entities"
)

// TransitionEvent describes a committed job state transition for the
// external activity feed. Events are published after the transition
// commits, never inside the transaction.
type TransitionEvent struct {
	JobID      int64                `json:"job_id"`
	Action     entities.AuditAction `json:"action"`
	FromStatus entities.JobStatus   `json:"from_status"`
	ToStatus   entities.JobStatus   `json:"to_status"`
	ActorID    int64                `json:"actor_id"`
	WorkerID   *int64               `json:"worker_id,omitempty"`
	Reason     string               `json:"reason,omitempty"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// Notifier publishes transition events to the activity feed collaborator.
type Notifier interface {
	// PublishTransition delivers one event. Failures are logged by the
	// caller, never surfaced to the client that made the transition.
	PublishTransition(ctx context.Context, event TransitionEvent) error

	// IsConfigured reports whether the notifier has a destination.
	IsConfigured() bool
}
