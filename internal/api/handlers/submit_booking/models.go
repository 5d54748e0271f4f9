package submit_booking

import "github.com/m04kA/SMC-TravelBooking/internal/api/handlers"

// SubmitBookingRequest HTTP request model
type SubmitBookingRequest struct {
	PaymentToken string `json:"paymentToken"`
}

// SubmitBookingResponse HTTP response model
type SubmitBookingResponse struct {
	Confirmation     handlers.ConfirmationView `json:"confirmation"`
	LocallyCancelled bool                      `json:"locallyCancelled"`
	Requoted         bool                      `json:"requoted"`
}
