package cancel_booking

import (
	"strings"

	"github.com/m04kA/SMC-TravelBooking/internal/usecase/cancel_confirmed_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CancelBookingRequest) ToUseCaseRequest(userID int64, bookingID string) *cancel_confirmed_booking.Request {
	reason := ""
	if r.CancellationReason != nil {
		reason = strings.TrimSpace(*r.CancellationReason)
	}

	return &cancel_confirmed_booking.Request{
		UserID:    userID,
		BookingID: bookingID,
		Reason:    reason,
	}
}
