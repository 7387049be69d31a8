// Package login реализует HTTP-обработчик входа пользователя.
//
// При успешной аутентификации возвращается JWT и публичная проекция
// пользователя; поля пароля и OTP в ответ не попадают.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
	"github.com/magabrotheeeer/estate-aggregator/internal/services/auth"
)

// Request — структура входных данных для авторизации. ExpectedRole
// необязательна; при несовпадении с ролью учетной записи вход отклоняется.
type Request struct {
	Email        string `json:"email" validate:"required"`
	Password     string `json:"password" validate:"required"`
	ExpectedRole string `json:"expectedRole"`
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, email, rawPassword, expectedRole string) (string, *models.User, error)
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "Некорректный JSON или валидация"
// @Failure 401 {object} response.Response "Неверные учетные данные"
// @Failure 403 {object} response.Response "Несовпадение роли"
// @Failure 404 {object} response.Response "Пользователь не найден"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /api/auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Email and password are required.", http.StatusBadRequest))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Email and password are required.", http.StatusBadRequest))
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Email, req.Password, req.ExpectedRole)
	var roleErr *auth.RoleMismatchError
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		log.Info("user not found", slog.String("email", req.Email))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("User not found.", http.StatusNotFound))
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		log.Info("invalid credentials", slog.String("email", req.Email))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Invalid credentials.", http.StatusUnauthorized))
		return
	case errors.As(err, &roleErr):
		log.Info("role mismatch", slog.String("role", roleErr.Role))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("Access denied for role: "+roleErr.Role, http.StatusForbidden))
		return
	case err != nil:
		log.Error("login failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error during login.", http.StatusInternalServerError))
		return
	}

	log.Info("login success", slog.String("email", req.Email))
	render.JSON(w, r, response.OK(map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    user.Public(),
	}))
}
