package wire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cleaning-service/internal/adaptor"
	"cleaning-service/internal/dto/response"
	"cleaning-service/internal/usecase"
	"cleaning-service/pkg/middleware"
	"cleaning-service/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingBookings struct {
	usecase.BookingService
	calls []string
	actor usecase.Actor
}

func (s *recordingBookings) record(name string, actor usecase.Actor) (*response.BookingDetailResponse, error) {
	s.calls = append(s.calls, name)
	s.actor = actor
	return &response.BookingDetailResponse{}, nil
}

func (s *recordingBookings) GetBooking(_ context.Context, a usecase.Actor, _ string) (*response.BookingDetailResponse, error) {
	return s.record("get", a)
}

func (s *recordingBookings) Start(_ context.Context, a usecase.Actor, _ string) (*response.BookingDetailResponse, error) {
	return s.record("start", a)
}

func (s *recordingBookings) Cancel(_ context.Context, a usecase.Actor, _ string) (*response.BookingDetailResponse, error) {
	return s.record("cancel", a)
}

func (s *recordingBookings) Complete(_ context.Context, a usecase.Actor, _ string) (*response.BookingDetailResponse, error) {
	return s.record("complete", a)
}

func (s *recordingBookings) MarkRoomComplete(_ context.Context, a usecase.Actor, _, _ string) (*response.BookingDetailResponse, error) {
	return s.record("room", a)
}

func newTestRouter(bookings usecase.BookingService) http.Handler {
	log := zap.NewNop()
	handler := &adaptor.Handler{
		Booking:  adaptor.NewBookingHandler(bookings, log),
		Estimate: adaptor.NewEstimateHandler(usecase.NewEstimateService(log), log),
		Loyalty:  adaptor.NewLoyaltyHandler(nil, log),
		Health:   adaptor.NewHealthHandler(nil, log),
	}
	return setupRouter(handler, &utils.Config{}, log)
}

func TestRoutesResolveActorAndDispatch(t *testing.T) {
	bookings := &recordingBookings{}
	router := newTestRouter(bookings)
	cleaner := uuid.New()

	routes := []struct {
		method, path, call string
	}{
		{http.MethodGet, "/api/bookings/b1", "get"},
		{http.MethodPost, "/api/bookings/b1/start", "start"},
		{http.MethodPost, "/api/bookings/b1/rooms/r1/complete", "room"},
		{http.MethodPost, "/api/bookings/b1/complete", "complete"},
		{http.MethodPost, "/api/bookings/b1/cancel", "cancel"},
	}

	for _, rt := range routes {
		req := httptest.NewRequest(rt.method, rt.path, nil)
		req.Header.Set(middleware.ActorIDHeader, cleaner.String())
		req.Header.Set(middleware.ActorRoleHeader, "cleaner")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rt.path)
	}

	assert.Equal(t, []string{"get", "start", "room", "complete", "cancel"}, bookings.calls)
	assert.Equal(t, usecase.Actor{ID: cleaner, Role: usecase.RoleCleaner}, bookings.actor)
}

func TestBookingRoutesRequireActorHeaders(t *testing.T) {
	bookings := &recordingBookings{}
	router := newTestRouter(bookings)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings/b1", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, bookings.calls)
}

func TestPublicRoutes(t *testing.T) {
	router := newTestRouter(&recordingBookings{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"service_type":"home","price":1000,"crew_size":1}`)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/estimate", body))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_hours":2`)
}
