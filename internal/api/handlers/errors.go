package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TravelBooking/internal/domain"
)

const (
	msgNoActiveBooking      = "нет активного бронирования"
	msgSubmissionInProgress = "бронирование уже отправляется"
	msgInvalidState         = "действие недоступно на текущем шаге бронирования"
	msgDatesRequired        = "не выбраны даты заезда и выезда"
	msgRoomRequired         = "не выбран номер"
	msgStaleQuote           = "даты изменились, повторите запрос"
	msgHotelNotFound        = "отель не найден"
	msgRoomNotFound         = "номер не найден"
	msgRoomUnavailable      = "номер недоступен на выбранные даты"
	msgPaymentDeclined      = "платеж отклонен"
	msgTemporaryUnavailable = "сервис временно недоступен, повторите попытку"
	msgAmbiguousOutcome     = "не удалось подтвердить результат оплаты, повторите отправку"
)

// ErrorMessage возвращает сообщение для пользователя и HTTP статус для ошибки бронирования.
// ok == false для ошибок вне доменной таксономии.
func ErrorMessage(err error) (status int, message string, ok bool) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, vErr.Error(), true
	case errors.Is(err, domain.ErrNoActiveBooking):
		return http.StatusNotFound, msgNoActiveBooking, true
	case errors.Is(err, domain.ErrConcurrentSubmission):
		return http.StatusConflict, msgSubmissionInProgress, true
	case errors.Is(err, domain.ErrInvariantViolation):
		return http.StatusConflict, msgInvalidState, true
	case errors.Is(err, domain.ErrDatesRequired):
		return http.StatusConflict, msgDatesRequired, true
	case errors.Is(err, domain.ErrRoomRequired):
		return http.StatusConflict, msgRoomRequired, true
	case errors.Is(err, domain.ErrStaleQuote):
		return http.StatusConflict, msgStaleQuote, true
	case errors.Is(err, domain.ErrHotelNotFound):
		return http.StatusNotFound, msgHotelNotFound, true
	case errors.Is(err, domain.ErrRoomNotFound):
		return http.StatusNotFound, msgRoomNotFound, true
	case errors.Is(err, domain.ErrRoomUnavailable):
		return http.StatusConflict, msgRoomUnavailable, true
	case errors.Is(err, domain.ErrPaymentDeclined):
		return http.StatusPaymentRequired, msgPaymentDeclined, true
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error(), true
	case errors.Is(err, domain.ErrTransientNetwork):
		return http.StatusServiceUnavailable, msgTemporaryUnavailable, true
	case errors.Is(err, domain.ErrAmbiguousOutcome):
		return http.StatusBadGateway, msgAmbiguousOutcome, true
	}
	return http.StatusInternalServerError, msgInternalError, false
}

// RespondBookingError пишет ответ для ошибки бронирования.
// Возвращает false, если ошибка не из доменной таксономии (ответ 500 уже записан).
func RespondBookingError(w http.ResponseWriter, err error) bool {
	status, message, ok := ErrorMessage(err)

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		RespondFieldError(w, status, message, vErr.Field)
		return ok
	}
	RespondError(w, status, message)
	return ok
}
