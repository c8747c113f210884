// Package signin реализует HTTP-обработчик входа пользователей.
//
// Выполняет декодирование JSON и валидацию полей, делегирует проверку
// учётных данных сервису аутентификации. Неизвестный email и неверный
// пароль дают одинаковый ответ 401, чтобы не раскрывать, какие адреса
// зарегистрированы. При успехе выставляется сессионная cookie.
package signin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/auth-gateway/internal/http/response"
	"github.com/magabrotheeeer/auth-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/auth-gateway/internal/services/auth"
)

// Request — структура входных данных для входа.
type Request struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис аутентификации
	sessions SessionIssuer       // Менеджер сессионной cookie
	validate *validator.Validate // Валидатор для проверки входных данных
}

// New создает новый экземпляр Handler с указанными логгером,
// сервисом и менеджером сессий.
func New(log *slog.Logger, service Service, sessions SessionIssuer) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Аутентифицирует пользователя по email и паролю, выставляет сессионную cookie.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.Response "Успешный вход"
// @Failure 400 {object} response.Response "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.Response "Неверные учетные данные"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /sign-in [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signin"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		// Причина (нет пользователя или не тот пароль) остаётся в логах.
		log.Warn("sign-in rejected", sl.Err(err))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid email or password"))
		return
	}
	if err != nil {
		log.Error("sign-in failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to sign in"))
		return
	}

	h.sessions.Issue(w, token)

	log.Info("user signed in", slog.String("uid", user.UID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "signed in successfully",
		"user":    user.Public(),
	}))
}
