//go:build e2e

package booking_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	nethttptest "net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"garage-booking/internal/domain/slot"
	"garage-booking/internal/domain/user"
	resdto "garage-booking/internal/handler/dto/response"
	"garage-booking/internal/handler/middleware"
	"garage-booking/internal/infra/messaging"
	"garage-booking/internal/infra/uow"
	"garage-booking/internal/pkg/clock"
	"garage-booking/internal/usecase/commands"
	"garage-booking/tests/common/builder"
	"garage-booking/tests/common/dbtest"
	"garage-booking/tests/common/httptest"
	"garage-booking/tests/common/testutil"
	"garage-booking/tests/e2e"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	scenarioSlotID = int64(7)
	scenarioDate   = "2025-03-01"
)

type BookingE2ETestSuite struct {
	e2e.SharedSuite
}

func TestBookingE2ESuite(t *testing.T) {
	suite.Run(t, new(BookingE2ETestSuite))
}

type scenario struct {
	customerID uuid.UUID
	token      string
	staffToken string
	vehicleID  int64
	serviceID  int64
	slotID     int64
}

// seed creates a customer with one vehicle, an active service and slot 7 on 2025-03-01 09:00-10:00.
func (s *BookingE2ETestSuite) seed() scenario {
	t := s.T()
	customerID := dbtest.CreateTestUser(t, s.DB, "customer@example.com", "customer")
	staffID := dbtest.CreateTestUser(t, s.DB, "staff@example.com", "staff")
	return scenario{
		customerID: customerID,
		token:      s.Tokens.GenerateToken(t, customerID, user.RoleCustomer),
		staffToken: s.Tokens.GenerateToken(t, staffID, user.RoleStaff),
		vehicleID:  dbtest.CreateTestVehicle(t, s.DB, customerID, "Corolla", "KA-01-1234"),
		serviceID:  dbtest.CreateTestService(t, s.DB, "Oil change", true),
		slotID:     dbtest.CreateTestSlotWithID(t, s.DB, scenarioSlotID, scenarioDate, "09:00", "10:00"),
	}
}

func (s *BookingE2ETestSuite) body(sc scenario, mutate ...func(map[string]any)) map[string]any {
	req := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
		b.VehicleID = sc.vehicleID
		b.ServiceID = sc.serviceID
		b.SlotID = sc.slotID
		b.Date = scenarioDate
	}).BuildReserveRequestDTO()
	return testutil.DtoMap(s.T(), req, mutate...)
}

func (s *BookingE2ETestSuite) reserve(token string, body any) *nethttptest.ResponseRecorder {
	return httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/appointments", body, token)
}

func (s *BookingE2ETestSuite) TestReserve() {
	s.Run("slot 7 on 2025-03-01 is booked exactly once", func() {
		sc := s.seed()

		rec := s.reserve(sc.token, s.body(sc))

		var body resdto.AppointmentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(scenarioSlotID, body.SlotID)
		s.Equal(scenarioDate, body.Date)
		s.Equal("09:00", body.StartTime)
		s.Equal("pending", body.Status)
		s.Equal("Oil change", body.ServiceName)
		s.True(dbtest.SlotIsBooked(s.T(), s.DB, scenarioSlotID))
		s.Equal(1, dbtest.CountAppointments(s.T(), s.DB, scenarioSlotID, "pending"))
		s.Equal(1, dbtest.CountNotificationJobs(s.T(), s.DB, commands.NotificationKindAppointmentBooked))

		second := s.reserve(sc.token, s.body(sc))

		form := httptest.AssertFieldError(s.T(), second, http.StatusConflict, "slot_id", "slot_unavailable")
		s.Equal(scenarioDate, form["date"])
		s.Equal(1, dbtest.CountAppointments(s.T(), s.DB, scenarioSlotID, "pending"))
		s.Equal(1, dbtest.CountNotificationJobs(s.T(), s.DB, commands.NotificationKindAppointmentBooked))
	})

	s.Run("stale date leaves the slot available", func() {
		sc := s.seed()

		rec := s.reserve(sc.token, s.body(sc, testutil.Field("date", "2025-03-02")))

		form := httptest.AssertFieldError(s.T(), rec, http.StatusUnprocessableEntity, "date", "stale_selection")
		s.Equal("2025-03-02", form["date"])
		s.False(dbtest.SlotIsBooked(s.T(), s.DB, scenarioSlotID))
		s.Equal(0, dbtest.CountAppointments(s.T(), s.DB, scenarioSlotID, "pending"))
		s.Equal(0, dbtest.CountNotificationJobs(s.T(), s.DB, commands.NotificationKindAppointmentBooked))
	})

	s.Run("unknown slot is rejected on slot_id", func() {
		sc := s.seed()
		rec := s.reserve(sc.token, s.body(sc, testutil.Field("slot_id", 999)))
		httptest.AssertFieldError(s.T(), rec, http.StatusUnprocessableEntity, "slot_id", "slot_not_found")
	})

	s.Run("another customer's vehicle is rejected before locking", func() {
		sc := s.seed()
		otherID := dbtest.CreateTestUser(s.T(), s.DB, "other@example.com", "customer")
		otherToken := s.Tokens.GenerateToken(s.T(), otherID, user.RoleCustomer)

		rec := s.reserve(otherToken, s.body(sc))

		httptest.AssertFieldError(s.T(), rec, http.StatusUnprocessableEntity, "vehicle_id", "vehicle_not_owned")
		s.False(dbtest.SlotIsBooked(s.T(), s.DB, scenarioSlotID))
	})

	s.Run("inactive service is rejected", func() {
		sc := s.seed()
		retired := dbtest.CreateTestService(s.T(), s.DB, "Carburettor tuning", false)

		rec := s.reserve(sc.token, s.body(sc, testutil.Field("service_id", retired)))

		httptest.AssertFieldError(s.T(), rec, http.StatusUnprocessableEntity, "service_id", "service_unavailable")
	})

	s.Run("missing vehicle is an input error", func() {
		sc := s.seed()
		rec := s.reserve(sc.token, s.body(sc, testutil.Field("vehicle_id", nil)))
		httptest.AssertFieldError(s.T(), rec, http.StatusBadRequest, "vehicle_id", "invalid_input")
	})

	s.Run("unauthenticated request is rejected", func() {
		sc := s.seed()
		rec := s.reserve("", s.body(sc))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})
}

func (s *BookingE2ETestSuite) TestConcurrentReservations() {
	sc := s.seed()
	const n = 12

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = map[int]int{}
		start = make(chan struct{})
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			rec := s.reserve(sc.token, s.body(sc))
			mu.Lock()
			codes[rec.Code]++
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	s.Equal(map[int]int{http.StatusCreated: 1, http.StatusConflict: n - 1}, codes)
	s.True(dbtest.SlotIsBooked(s.T(), s.DB, scenarioSlotID))
	s.Equal(1, dbtest.CountAppointments(s.T(), s.DB, scenarioSlotID, "pending"))
}

func (s *BookingE2ETestSuite) TestLockTimeout() {
	sc := s.seed()
	ctx := context.Background()

	holder, err := s.DB.Begin(ctx)
	s.Require().NoError(err)
	defer func() { _ = holder.Rollback(ctx) }()
	_, err = holder.Exec(ctx, "SELECT id FROM slots WHERE id = $1 FOR UPDATE", scenarioSlotID)
	s.Require().NoError(err)

	started := time.Now()
	rec := s.reserve(sc.token, s.body(sc))

	httptest.AssertFieldError(s.T(), rec, http.StatusServiceUnavailable, "slot_id", "slot_busy")
	s.Equal("1", rec.Header().Get("Retry-After"))
	s.True(time.Since(started) >= s.Config.Booking.LockTimeout, "request should wait out lock_timeout")

	s.Require().NoError(holder.Rollback(ctx))
	s.False(dbtest.SlotIsBooked(s.T(), s.DB, scenarioSlotID))

	retry := s.reserve(sc.token, s.body(sc))
	httptest.AssertSuccessResponse(s.T(), retry, http.StatusCreated, nil)
}

func (s *BookingE2ETestSuite) TestListAvailable() {
	sc := s.seed()
	dbtest.CreateTestSlot(s.T(), s.DB, scenarioDate, "08:00", "09:00")
	dbtest.CreateTestSlot(s.T(), s.DB, scenarioDate, "10:00", "11:00")
	dbtest.CreateTestSlot(s.T(), s.DB, "2025-03-02", "08:00", "09:00")

	httptest.AssertSuccessResponse(s.T(), s.reserve(sc.token, s.body(sc)), http.StatusCreated, nil)

	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/slots/available?date="+scenarioDate, nil, sc.token)

	var body resdto.AvailableSlotsResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Require().Len(body.Slots, 2)
	s.Equal("08:00", body.Slots[0].StartTime)
	s.Equal("10:00", body.Slots[1].StartTime)
	for _, sl := range body.Slots {
		s.NotEqual(scenarioSlotID, sl.ID)
	}
}

func (s *BookingE2ETestSuite) TestStaffSlotManagement() {
	s.Run("releasing a booked slot cancels its appointment and reopens it", func() {
		sc := s.seed()
		httptest.AssertSuccessResponse(s.T(), s.reserve(sc.token, s.body(sc)), http.StatusCreated, nil)

		path := "/api/admin/slots/" + strconv.FormatInt(scenarioSlotID, 10) + "/toggle"
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, path, nil, sc.staffToken)

		var body resdto.ToggleSlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("available", body.Slot.Status)
		s.Equal(int64(1), body.CancelledAppointments)
		s.Equal(1, dbtest.CountAppointments(s.T(), s.DB, scenarioSlotID, "cancelled"))

		again := s.reserve(sc.token, s.body(sc))
		httptest.AssertSuccessResponse(s.T(), again, http.StatusCreated, nil)
		s.Equal(1, dbtest.CountAppointments(s.T(), s.DB, scenarioSlotID, "pending"))
	})

	s.Run("releasing a slot keeps completed visits in the history", func() {
		sc := s.seed()
		httptest.AssertSuccessResponse(s.T(), s.reserve(sc.token, s.body(sc)), http.StatusCreated, nil)
		_, err := s.DB.Exec(context.Background(), "UPDATE appointments SET status = 'completed' WHERE slot_id = $1", scenarioSlotID)
		s.Require().NoError(err)

		path := "/api/admin/slots/" + strconv.FormatInt(scenarioSlotID, 10) + "/toggle"
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, path, nil, sc.staffToken)

		var body resdto.ToggleSlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(int64(0), body.CancelledAppointments)
		s.Equal(1, dbtest.CountAppointments(s.T(), s.DB, scenarioSlotID, "completed"))
		s.Equal(0, dbtest.CountAppointments(s.T(), s.DB, scenarioSlotID, "cancelled"))

		httptest.AssertSuccessResponse(s.T(), s.reserve(sc.token, s.body(sc)), http.StatusCreated, nil)
	})

	s.Run("customers cannot use staff routes", func() {
		sc := s.seed()
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/admin/slots/7/toggle", nil, sc.token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("create, duplicate and calendar", func() {
		sc := s.seed()
		req := builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) {
			b.Start, _ = slot.NewTimeOfDay(14, 0)
			b.End, _ = slot.NewTimeOfDay(15, 0)
		}).BuildCreateRequestDTO()

		created := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/admin/slots", req, sc.staffToken)
		httptest.AssertSuccessResponse(s.T(), created, http.StatusCreated, nil)

		dup := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/admin/slots", req, sc.staffToken)
		httptest.AssertFieldError(s.T(), dup, http.StatusConflict, "start_time", "slot_already_exists")

		req.StartTime, req.EndTime = "16:00", "15:00"
		inverted := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/admin/slots", req, sc.staffToken)
		httptest.AssertFieldError(s.T(), inverted, http.StatusBadRequest, "end_time", "invalid_slot_window")

		cal := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/admin/slots?from=2025-03-01&to=2025-03-31", nil, sc.staffToken)
		var slots []resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), cal, http.StatusOK, &slots)
		s.Require().Len(slots, 2)
		s.Equal("09:00", slots[0].StartTime)
		s.Equal("14:00", slots[1].StartTime)
	})
}

func (s *BookingE2ETestSuite) TestHistory() {
	sc := s.seed()
	rec := s.reserve(sc.token, s.body(sc))
	var booked resdto.AppointmentResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &booked)

	list := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/appointments", nil, sc.token)
	var history []resdto.AppointmentResponse
	httptest.AssertSuccessResponse(s.T(), list, http.StatusOK, &history)
	s.Require().Len(history, 1)
	s.Equal(booked.ID, history[0].ID)
	s.Equal("KA-01-1234", history[0].PlateNo)

	otherID := dbtest.CreateTestUser(s.T(), s.DB, "other@example.com", "customer")
	otherToken := s.Tokens.GenerateToken(s.T(), otherID, user.RoleCustomer)
	path := "/api/appointments/" + strconv.FormatInt(booked.ID, 10)

	forbidden := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, path, nil, otherToken)
	httptest.AssertErrorResponse(s.T(), forbidden, http.StatusForbidden, "Access denied")

	own := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, path, nil, sc.token)
	httptest.AssertSuccessResponse(s.T(), own, http.StatusOK, nil)
}

type capturingWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (w *capturingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *capturingWriter) Close() error { return nil }

func (s *BookingE2ETestSuite) TestNotificationRelay() {
	sc := s.seed()
	httptest.AssertSuccessResponse(s.T(), s.reserve(sc.token, s.body(sc)), http.StatusCreated, nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	writer := &capturingWriter{}
	relay := messaging.NewRelay(uow.NewPostgresUoW(s.DB, clock.NewSystemClock(), s.Config, logger), writer, logger, s.Config.Kafka)

	sent, err := relay.PublishBatch(context.Background())
	s.Require().NoError(err)
	s.Equal(1, sent)
	s.Require().Len(writer.messages, 1)
	s.Equal(commands.NotificationTopicAppointmentBooked, writer.messages[0].Topic)

	again, err := relay.PublishBatch(context.Background())
	s.Require().NoError(err)
	s.Equal(0, again, "sent jobs must not be delivered twice")
}

func (s *BookingE2ETestSuite) TestRedisWindowCounter() {
	client := redis.NewClient(&redis.Options{Addr: s.Config.Redis.Addr})
	defer client.Close()

	counter := middleware.NewRedisWindowCounter(client)
	key := "rl:e2e:" + uuid.NewString()
	ctx := context.Background()

	first, err := counter.Incr(ctx, key, time.Minute)
	require.NoError(s.T(), err)
	second, err := counter.Incr(ctx, key, time.Minute)
	require.NoError(s.T(), err)

	s.Equal(int64(1), first)
	s.Equal(int64(2), second)
	ttl, err := client.PTTL(ctx, key).Result()
	require.NoError(s.T(), err)
	s.Greater(ttl, time.Duration(0))
}
