package update_step

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TravelBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TravelBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	"github.com/m04kA/SMC-TravelBooking/internal/session"
	"github.com/m04kA/SMC-TravelBooking/pkg/logger"
)

func put(h *Handler, userID int64, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/booking/step", bytes.NewBufferString(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_FreeNavigation(t *testing.T) {
	sessions := session.NewManager(time.Hour)
	sessions.Get(1).Machine.StartBooking(domain.Hotel{ID: "h-1"})

	rec := put(NewHandler(sessions, logger.NewNop()), 1, `{"step":"payment"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var view handlers.BookingView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, "payment", view.Step)
}

func TestHandle_ProcessingIsRejected(t *testing.T) {
	sessions := session.NewManager(time.Hour)
	machine := sessions.Get(1).Machine
	machine.StartBooking(domain.Hotel{ID: "h-1"})

	rec := put(NewHandler(sessions, logger.NewNop()), 1, `{"step":"processing"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, domain.StepDates, machine.Current().Step)
	assert.False(t, machine.Current().IsProcessing())
}

func TestHandle_UnknownStep(t *testing.T) {
	sessions := session.NewManager(time.Hour)
	sessions.Get(1).Machine.StartBooking(domain.Hotel{ID: "h-1"})

	rec := put(NewHandler(sessions, logger.NewNop()), 1, `{"step":"checkout"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_NoBooking(t *testing.T) {
	rec := put(NewHandler(session.NewManager(time.Hour), logger.NewNop()), 1, `{"step":"rooms"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
