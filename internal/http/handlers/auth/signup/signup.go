// Package signup реализует HTTP-обработчик регистрации пользователей.
//
// Определяет структуру Request для входных данных, выполняет декодирование
// JSON, валидацию полей (включая правило сложности пароля) и делегирует
// создание учётной записи сервису аутентификации. При успехе выставляет
// сессионную cookie и возвращает 201 с публичными полями пользователя.
package signup

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"unicode"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/auth-gateway/internal/http/response"
	"github.com/magabrotheeeer/auth-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/auth-gateway/internal/storage"
)

// Request — структура входных данных для регистрации.
//
// Имя от 2 до 100 символов, пароль от 6 до 128 символов и обязан
// содержать хотя бы одну букву и одну цифру. Роль опциональна,
// допускаются только user и admin; пустая роль означает user.
type Request struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128,passwd"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис аутентификации
	sessions SessionIssuer       // Менеджер сессионной cookie
	validate *validator.Validate // Валидатор для проверки входных данных
}

// New создает новый экземпляр Handler и регистрирует правило
// сложности пароля passwd.
func New(log *slog.Logger, service Service, sessions SessionIssuer) *Handler {
	v := validator.New()
	_ = v.RegisterValidation("passwd", passwordComplexity)
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		validate: v,
	}
}

// passwordComplexity — правило сложности: хотя бы одна буква и одна цифра.
func passwordComplexity(fl validator.FieldLevel) bool {
	var hasLetter, hasDigit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создаёт учётную запись, выставляет сессионную cookie и возвращает публичные поля пользователя.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные новой учётной записи"
// @Success 201 {object} response.Response "Пользователь создан"
// @Failure 400 {object} response.Response "Некорректный JSON или ошибка валидации"
// @Failure 409 {object} response.Response "Email уже зарегистрирован"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /sign-up [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

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

	user, token, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if errors.Is(err, storage.ErrUserExists) {
		log.Warn("email already registered", slog.String("email", req.Email))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("email is already registered"))
		return
	}
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	h.sessions.Issue(w, token)

	log.Info("user registered", slog.String("uid", user.UID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "user created successfully",
		"user":    user.Public(),
	}))
}
