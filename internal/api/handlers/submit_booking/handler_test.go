package submit_booking

import (
	"context"
	"encoding/json"
	"errors"
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
	"github.com/m04kA/SMC-TravelBooking/internal/service/history"
	"github.com/m04kA/SMC-TravelBooking/internal/session"
	submitUC "github.com/m04kA/SMC-TravelBooking/internal/usecase/submit_booking"
	"github.com/m04kA/SMC-TravelBooking/pkg/logger"
)

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) Execute(ctx context.Context, machine *bookingstate.Machine, ledger *history.Ledger, req *submitUC.Request) (*submitUC.Response, error) {
	args := m.Called(ctx, machine, ledger, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*submitUC.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

const userID = int64(11)

func post(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/booking/submit", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Confirmed(t *testing.T) {
	sessions := session.NewManager(time.Hour)
	sess := sessions.Get(userID)

	submitter := new(mockSubmitter)
	submitter.On("Execute", mock.Anything, sess.Machine, sess.Ledger, &submitUC.Request{UserID: userID, PaymentToken: "tok"}).
		Return(&submitUC.Response{
			Confirmation: domain.BookingConfirmation{
				ID:              "b-1",
				ReferenceNumber: "REF-1",
				UserID:          userID,
				Status:          domain.StatusConfirmed,
			},
			Requoted: true,
		}, nil).Once()

	rec := post(NewHandler(sessions, submitter, logger.NewNop()), `{"paymentToken":"tok"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SubmitBookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "b-1", resp.Confirmation.ID)
	assert.Equal(t, "REF-1", resp.Confirmation.ReferenceNumber)
	assert.True(t, resp.Requoted)
	assert.False(t, resp.LocallyCancelled)
	submitter.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "validation", err: domain.NewValidationError(domain.FieldEmail, "is required"), status: http.StatusBadRequest},
		{name: "concurrent", err: domain.ErrConcurrentSubmission, status: http.StatusConflict},
		{name: "no booking", err: domain.ErrNoActiveBooking, status: http.StatusNotFound},
		{name: "declined", err: domain.ErrPaymentDeclined, status: http.StatusPaymentRequired},
		{name: "rejected by payment", err: domain.ErrValidation, status: http.StatusUnprocessableEntity},
		{name: "transient", err: domain.ErrTransientNetwork, status: http.StatusServiceUnavailable},
		{name: "ambiguous", err: domain.ErrAmbiguousOutcome, status: http.StatusBadGateway},
		{name: "internal", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submitter := new(mockSubmitter)
			submitter.On("Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := post(NewHandler(session.NewManager(time.Hour), submitter, logger.NewNop()), `{"paymentToken":"tok"}`)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_InvalidBody(t *testing.T) {
	submitter := new(mockSubmitter)

	rec := post(NewHandler(session.NewManager(time.Hour), submitter, logger.NewNop()), `not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	submitter.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
