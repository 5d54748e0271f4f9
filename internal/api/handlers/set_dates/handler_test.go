package set_dates

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TravelBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	"github.com/m04kA/SMC-TravelBooking/internal/service/bookingstate"
	"github.com/m04kA/SMC-TravelBooking/internal/session"
	"github.com/m04kA/SMC-TravelBooking/internal/usecase/check_availability"
	"github.com/m04kA/SMC-TravelBooking/pkg/logger"
)

type mockAvailability struct {
	mock.Mock
}

func (m *mockAvailability) Execute(ctx context.Context, machine *bookingstate.Machine) (*check_availability.Response, error) {
	args := m.Called(ctx, machine)
	if resp := args.Get(0); resp != nil {
		return resp.(*check_availability.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

const userID = int64(3)

func put(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/booking/dates", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_SetsDatesAndChecksAvailability(t *testing.T) {
	sessions := session.NewManager(time.Hour)
	machine := sessions.Get(userID).Machine
	machine.StartBooking(domain.Hotel{ID: "h-1", Name: "Grand"})

	availability := new(mockAvailability)
	availability.On("Execute", mock.Anything, machine).
		Return(&check_availability.Response{FromCache: true}, nil).Once()

	rec := put(NewHandler(sessions, availability, logger.NewNop()), `{"checkIn":"2026-05-01","checkOut":"2026-05-04"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SetDatesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.FromCache)
	require.NotNil(t, resp.Booking)
	require.NotNil(t, resp.Booking.CheckIn)
	assert.Equal(t, "2026-05-01", *resp.Booking.CheckIn)
	assert.Equal(t, "2026-05-04", *resp.Booking.CheckOut)
	availability.AssertExpectations(t)
}

func TestHandle_InvalidDates(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "bad check-in format", body: `{"checkIn":"01.05.2026","checkOut":"2026-05-04"}`, field: bookingstate.FieldCheckIn},
		{name: "bad check-out format", body: `{"checkIn":"2026-05-01","checkOut":""}`, field: bookingstate.FieldCheckOut},
		{name: "check-out before check-in", body: `{"checkIn":"2026-05-04","checkOut":"2026-05-01"}`, field: bookingstate.FieldCheckOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := session.NewManager(time.Hour)
			sessions.Get(userID).Machine.StartBooking(domain.Hotel{ID: "h-1"})
			availability := new(mockAvailability)

			rec := put(NewHandler(sessions, availability, logger.NewNop()), tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"field":"`+tt.field+`"`)
			availability.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_NoActiveBooking(t *testing.T) {
	availability := new(mockAvailability)

	rec := put(NewHandler(session.NewManager(time.Hour), availability, logger.NewNop()),
		`{"checkIn":"2026-05-01","checkOut":"2026-05-04"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	availability.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_AvailabilityErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "hotel not found", err: domain.ErrHotelNotFound, status: http.StatusNotFound},
		{name: "transient", err: domain.ErrTransientNetwork, status: http.StatusServiceUnavailable},
		{name: "rejected input", err: check_availability.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "internal", err: check_availability.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := session.NewManager(time.Hour)
			machine := sessions.Get(userID).Machine
			machine.StartBooking(domain.Hotel{ID: "h-1"})

			availability := new(mockAvailability)
			availability.On("Execute", mock.Anything, machine).Return(nil, tt.err).Once()

			rec := put(NewHandler(sessions, availability, logger.NewNop()), `{"checkIn":"2026-05-01","checkOut":"2026-05-04"}`)

			assert.Equal(t, tt.status, rec.Code)
			// даты остаются выставленными
			assert.True(t, machine.Current().HasDates())
		})
	}
}
