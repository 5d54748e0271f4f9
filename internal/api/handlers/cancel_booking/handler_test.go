package cancel_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TravelBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TravelBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	"github.com/m04kA/SMC-TravelBooking/internal/service/history"
	"github.com/m04kA/SMC-TravelBooking/internal/session"
	"github.com/m04kA/SMC-TravelBooking/internal/usecase/cancel_confirmed_booking"
	"github.com/m04kA/SMC-TravelBooking/internal/usecase/load_history"
	"github.com/m04kA/SMC-TravelBooking/pkg/logger"
)

type mockCanceller struct {
	mock.Mock
}

func (m *mockCanceller) Execute(ctx context.Context, req *cancel_confirmed_booking.Request, ledger *history.Ledger) (*cancel_confirmed_booking.Response, error) {
	args := m.Called(ctx, req, ledger)
	if resp := args.Get(0); resp != nil {
		return resp.(*cancel_confirmed_booking.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) Execute(ctx context.Context, req *load_history.Request, ledger *history.Ledger) (*load_history.Response, error) {
	args := m.Called(ctx, req, ledger)
	if resp := args.Get(0); resp != nil {
		return resp.(*load_history.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

const userID = int64(9)

func patch(h *Handler, bookingID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID+"/cancel", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	req = mux.SetURLVars(req, map[string]string{"bookingId": bookingID})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Cancelled(t *testing.T) {
	sessions := session.NewManager(time.Hour)
	sess := sessions.Get(userID)

	loader := new(mockLoader)
	loader.On("Execute", mock.Anything, &load_history.Request{UserID: userID}, sess.Ledger).
		Return(&load_history.Response{}, nil).Once()

	canceller := new(mockCanceller)
	canceller.On("Execute", mock.Anything, &cancel_confirmed_booking.Request{
		UserID:    userID,
		BookingID: "b-1",
		Reason:    "plans changed",
	}, sess.Ledger).
		Return(&cancel_confirmed_booking.Response{
			Confirmation: domain.BookingConfirmation{ID: "b-1", UserID: userID, Status: domain.StatusCancelled},
			Touched:      1,
		}, nil).Once()

	rec := patch(NewHandler(sessions, canceller, loader, logger.NewNop()), "b-1", `{"cancellationReason":"  plans changed "}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var view handlers.ConfirmationView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, "b-1", view.ID)
	assert.Equal(t, string(domain.StatusCancelled), view.Status)
	loader.AssertExpectations(t)
	canceller.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "invalid input", err: cancel_confirmed_booking.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "not found", err: cancel_confirmed_booking.ErrBookingNotFound, status: http.StatusNotFound},
		{name: "access denied", err: cancel_confirmed_booking.ErrAccessDenied, status: http.StatusForbidden},
		{name: "cannot cancel", err: cancel_confirmed_booking.ErrCannotCancel, status: http.StatusConflict},
		{name: "internal", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := new(mockLoader)
			loader.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return(&load_history.Response{}, nil)

			canceller := new(mockCanceller)
			canceller.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := patch(NewHandler(session.NewManager(time.Hour), canceller, loader, logger.NewNop()), "b-1", `{}`)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_HistoryLoadFailureStillCancels(t *testing.T) {
	loader := new(mockLoader)
	loader.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	canceller := new(mockCanceller)
	canceller.On("Execute", mock.Anything, mock.Anything, mock.Anything).
		Return(&cancel_confirmed_booking.Response{
			Confirmation: domain.BookingConfirmation{ID: "b-1", Status: domain.StatusCancelled},
		}, nil).Once()

	rec := patch(NewHandler(session.NewManager(time.Hour), canceller, loader, logger.NewNop()), "b-1", `{}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandle_InvalidBody(t *testing.T) {
	canceller := new(mockCanceller)
	loader := new(mockLoader)

	rec := patch(NewHandler(session.NewManager(time.Hour), canceller, loader, logger.NewNop()), "b-1", `{"cancellationReason":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	canceller.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}
