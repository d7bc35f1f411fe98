package shared

import (
	"time"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on read-side query types
type VehicleSnapshot struct {
	ID      int64
	UserID  uuid.UUID
	Model   string
	PlateNo string
}

type ServiceSnapshot struct {
	ID       int64
	Name     string
	IsActive bool
}

const (
	NotificationStatusQueued = "queued"
	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"
)

// NotificationJob is an outbox row; Topic names the Kafka topic the relay publishes to.
type NotificationJob struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	Key       string
	Payload   []byte
	Status    string
	Attempts  int
	LastError *string
	RunAt     time.Time
	CreatedAt time.Time
}
