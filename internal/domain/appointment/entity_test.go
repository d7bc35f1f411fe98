//go:build unit

package appointment_test

import (
	"strings"
	"testing"
	"time"

	"garage-booking/internal/domain/appointment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppointment(t *testing.T) {
	now := time.Date(2025, 2, 20, 8, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("starts pending", func(t *testing.T) {
		notes, err := appointment.NewNotes("  oil change  ")
		require.NoError(t, err)

		a, err := appointment.NewAppointment(userID, 3, 2, 7, notes, now)

		require.NoError(t, err)
		assert.Equal(t, appointment.StatusPending, a.Status())
		assert.Equal(t, "oil change", a.Notes().String())
		assert.Equal(t, int64(7), a.SlotID())
		assert.True(t, a.IsOwnedBy(userID))
		assert.Equal(t, now, a.CreatedAt())
	})

	t.Run("missing references", func(t *testing.T) {
		tests := []struct {
			name    string
			user    uuid.UUID
			vehicle int64
			service int64
			slot    int64
		}{
			{name: "nil user", user: uuid.Nil, vehicle: 1, service: 1, slot: 1},
			{name: "zero vehicle", user: userID, vehicle: 0, service: 1, slot: 1},
			{name: "zero service", user: userID, vehicle: 1, service: 0, slot: 1},
			{name: "negative slot", user: userID, vehicle: 1, service: 1, slot: -1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := appointment.NewAppointment(tt.user, tt.vehicle, tt.service, tt.slot, appointment.Notes{}, now)
				assert.ErrorIs(t, err, appointment.ErrMissingReference)
			})
		}
	})
}

func TestNotesLength(t *testing.T) {
	_, err := appointment.NewNotes(strings.Repeat("a", appointment.MaxNotesLength))
	assert.NoError(t, err)

	_, err = appointment.NewNotes(strings.Repeat("a", appointment.MaxNotesLength+1))
	assert.ErrorIs(t, err, appointment.ErrNotesTooLong)

	notes, err := appointment.NewNotes("   ")
	require.NoError(t, err)
	assert.True(t, notes.IsEmpty())
}

func TestAppointmentCancel(t *testing.T) {
	created := time.Date(2025, 2, 20, 8, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)
	a := appointment.ReconstructAppointment(1, uuid.New(), 1, 1, 7, appointment.Notes{}, appointment.StatusPending, created, created)

	require.NoError(t, a.Cancel(later))
	assert.Equal(t, appointment.StatusCancelled, a.Status())
	assert.Equal(t, later, a.UpdatedAt())
	assert.False(t, a.Status().IsActive())

	assert.ErrorIs(t, a.Cancel(later), appointment.ErrAlreadyCancelled)
}

func TestNewStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "completed", "cancelled"} {
		status, err := appointment.NewStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, status.String())
	}
	_, err := appointment.NewStatus("canceled")
	assert.ErrorIs(t, err, appointment.ErrInvalidStatus)
}
