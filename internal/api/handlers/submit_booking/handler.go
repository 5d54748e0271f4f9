package submit_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TravelBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TravelBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	submitUC "github.com/m04kA/SMC-TravelBooking/internal/usecase/submit_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не определен"
)

type Handler struct {
	sessions  SessionProvider
	submitter BookingSubmitter
	logger    Logger
}

func NewHandler(sessions SessionProvider, submitter BookingSubmitter, logger Logger) *Handler {
	return &Handler{
		sessions:  sessions,
		submitter: submitter,
		logger:    logger,
	}
}

// Handle POST /api/v1/booking/submit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req SubmitBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking/submit - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	sess := h.sessions.Get(userID)

	resp, err := h.submitter.Execute(r.Context(), sess.Machine, sess.Ledger, &submitUC.Request{
		UserID:       userID,
		PaymentToken: req.PaymentToken,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConcurrentSubmission):
			h.logger.Warn("POST /booking/submit - Submission already in progress: user_id=%d", userID)
		case errors.Is(err, domain.ErrAmbiguousOutcome):
			h.logger.Error("POST /booking/submit - Ambiguous outcome: user_id=%d, error=%v", userID, err)
		default:
			h.logger.Warn("POST /booking/submit - Submission failed: user_id=%d, error=%v", userID, err)
		}
		handlers.RespondBookingError(w, err)
		return
	}

	h.logger.Info("POST /booking/submit - Booking confirmed: user_id=%d, booking_id=%s, reference=%s",
		userID, resp.Confirmation.ID, resp.Confirmation.ReferenceNumber)
	handlers.RespondJSON(w, http.StatusCreated, SubmitBookingResponse{
		Confirmation:     handlers.FromConfirmation(resp.Confirmation),
		LocallyCancelled: resp.LocallyCancelled,
		Requoted:         resp.Requoted,
	})
}
