package bookingstate

import "github.com/m04kA/SMC-TravelBooking/internal/domain"

// Submission билет на одну отправку бронирования.
// Выдается Machine.Submit и предъявляется обратно в CompleteSubmission / FailSubmission,
// чтобы машина могла понять, относится ли результат к текущему бронированию.
type Submission struct {
	instanceID string
	draft      domain.BookingDraft
}

// InstanceID идентификатор бронирования, для которого начата отправка
func (s *Submission) InstanceID() string {
	return s.instanceID
}

// Draft снимок бронирования на момент отправки
func (s *Submission) Draft() domain.BookingDraft {
	d := s.draft
	d.Pricing = s.draft.Pricing.Clone()
	return d
}
