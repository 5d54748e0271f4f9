package get_history

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-TravelBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TravelBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TravelBooking/internal/usecase/load_history"
)

const (
	msgInvalidRefresh = "некорректный параметр refresh"
	msgUnauthorized   = "пользователь не определен"
)

type Handler struct {
	sessions SessionProvider
	loader   HistoryLoader
	logger   Logger
}

func NewHandler(sessions SessionProvider, loader HistoryLoader, logger Logger) *Handler {
	return &Handler{
		sessions: sessions,
		loader:   loader,
		logger:   logger,
	}
}

// Handle GET /api/v1/bookings?refresh=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	refresh := false
	if raw := r.URL.Query().Get("refresh"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidRefresh)
			return
		}
		refresh = parsed
	}

	sess := h.sessions.Get(userID)

	// История из БД загружается в сессию один раз; refresh перечитывает ее
	partial := false
	err := sess.Hydrate(r.Context(), refresh, func(ctx context.Context) error {
		_, err := h.loader.Execute(ctx, &load_history.Request{UserID: userID}, sess.Ledger)
		return err
	})
	if err != nil {
		h.logger.Warn("GET /bookings - Failed to load history, serving session history: user_id=%d, error=%v",
			userID, err)
		partial = true
	}

	handlers.RespondJSON(w, http.StatusOK, HistoryResponse{
		Bookings: handlers.FromConfirmations(sess.Ledger.List()),
		Partial:  partial,
	})
}
