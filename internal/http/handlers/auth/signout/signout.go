// Package signout реализует HTTP-обработчик выхода пользователя.
//
// Сбрасывает сессионную cookie и отвечает 200. Операция идемпотентна:
// выход без активной сессии также успешен.
package signout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/auth-gateway/internal/http/response"
)

// SessionRevoker сбрасывает сессионную cookie.
type SessionRevoker interface {
	Revoke(w http.ResponseWriter)
}

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log      *slog.Logger
	sessions SessionRevoker
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions SessionRevoker) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
	}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Сбрасывает сессионную cookie. Идемпотентен.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Сессия завершена"
// @Router /sign-out [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signout"

	h.sessions.Revoke(w)

	h.log.Info("user signed out",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "signed out successfully",
	}))
}
