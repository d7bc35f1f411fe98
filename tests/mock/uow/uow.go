// Package uowmock holds testify mocks for the unit of work and its repositories.
package uowmock

import (
	"context"
	"time"

	"garage-booking/internal/domain/appointment"
	"garage-booking/internal/domain/slot"
	"garage-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// UnitOfWork runs fn against Tx directly. Set Err to fail before fn runs.
type UnitOfWork struct {
	Tx    *Tx
	Reads *CommandReads
	Err   error
	Calls int
}

func New() *UnitOfWork {
	reads := &CommandReads{}
	return &UnitOfWork{
		Tx: &Tx{
			SlotRepo:         &SlotRepository{},
			AppointmentRepo:  &AppointmentRepository{},
			NotificationRepo: &NotificationRepository{},
			ReadsRepo:        reads,
		},
		Reads: reads,
	}
}

func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.Calls++
	if u.Err != nil {
		return u.Err
	}
	return fn(ctx, u.Tx)
}

func (u *UnitOfWork) CommandReads() shared.CommandReads {
	return u.Reads
}

// AssertExpectations checks every repository mock.
func (u *UnitOfWork) AssertExpectations(t mock.TestingT) {
	u.Tx.SlotRepo.AssertExpectations(t)
	u.Tx.AppointmentRepo.AssertExpectations(t)
	u.Tx.NotificationRepo.AssertExpectations(t)
	u.Reads.AssertExpectations(t)
}

type Tx struct {
	SlotRepo         *SlotRepository
	AppointmentRepo  *AppointmentRepository
	NotificationRepo *NotificationRepository
	ReadsRepo        *CommandReads
}

func (t *Tx) Slots() shared.SlotRepository                 { return t.SlotRepo }
func (t *Tx) Appointments() shared.AppointmentRepository   { return t.AppointmentRepo }
func (t *Tx) Notifications() shared.NotificationRepository { return t.NotificationRepo }
func (t *Tx) Reads() shared.CommandReads                   { return t.ReadsRepo }

type SlotRepository struct {
	mock.Mock
}

func (m *SlotRepository) LockByID(ctx context.Context, id int64) (*slot.Slot, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*slot.Slot)
	return s, args.Error(1)
}

func (m *SlotRepository) UpdateBooked(ctx context.Context, s *slot.Slot) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SlotRepository) Create(ctx context.Context, s *slot.Slot) (*slot.Slot, error) {
	args := m.Called(ctx, s)
	created, _ := args.Get(0).(*slot.Slot)
	return created, args.Error(1)
}

type AppointmentRepository struct {
	mock.Mock
}

func (m *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) (int64, time.Time, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Get(1).(time.Time), args.Error(2)
}

func (m *AppointmentRepository) CancelActiveBySlot(ctx context.Context, slotID int64, now time.Time) (int64, error) {
	args := m.Called(ctx, slotID, now)
	return args.Get(0).(int64), args.Error(1)
}

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) CreateJob(ctx context.Context, job shared.NotificationJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *NotificationRepository) FetchQueued(ctx context.Context, limit int) ([]shared.NotificationJob, error) {
	args := m.Called(ctx, limit)
	jobs, _ := args.Get(0).([]shared.NotificationJob)
	return jobs, args.Error(1)
}

func (m *NotificationRepository) MarkSent(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *NotificationRepository) MarkAttemptFailed(ctx context.Context, id uuid.UUID, lastError string, maxAttempts int) error {
	args := m.Called(ctx, id, lastError, maxAttempts)
	return args.Error(0)
}

type CommandReads struct {
	mock.Mock
}

func (m *CommandReads) VehicleByID(ctx context.Context, id int64) (*shared.VehicleSnapshot, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*shared.VehicleSnapshot)
	return v, args.Error(1)
}

func (m *CommandReads) ServiceByID(ctx context.Context, id int64) (*shared.ServiceSnapshot, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*shared.ServiceSnapshot)
	return s, args.Error(1)
}
