package shared

import (
	"context"
	"time"

	"garage-booking/internal/domain/appointment"
	"garage-booking/internal/domain/slot"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within runs fn in a read-committed transaction, retrying serialization failures and deadlocks.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads serves precondition checks outside any transaction.
	CommandReads() CommandReads
}

type Tx interface {
	Slots() SlotRepository
	Appointments() AppointmentRepository
	Notifications() NotificationRepository
	Reads() CommandReads
}

type CommandReads interface {
	VehicleByID(ctx context.Context, id int64) (*VehicleSnapshot, error)
	ServiceByID(ctx context.Context, id int64) (*ServiceSnapshot, error)
}

type SlotRepository interface {
	// LockByID takes the row lock, waiting at most the configured lock timeout.
	LockByID(ctx context.Context, id int64) (*slot.Slot, error)
	UpdateBooked(ctx context.Context, s *slot.Slot) error
	Create(ctx context.Context, s *slot.Slot) (*slot.Slot, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *appointment.Appointment) (int64, time.Time, error)
	CancelActiveBySlot(ctx context.Context, slotID int64, now time.Time) (int64, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, job NotificationJob) error
	// FetchQueued skips rows locked by other relays.
	FetchQueued(ctx context.Context, limit int) ([]NotificationJob, error)
	MarkSent(ctx context.Context, ids []uuid.UUID) error
	MarkAttemptFailed(ctx context.Context, id uuid.UUID, lastError string, maxAttempts int) error
}
