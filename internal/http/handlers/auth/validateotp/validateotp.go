// Package validateotp реализует HTTP-обработчик автономной проверки кода
// подтверждения: пароль не меняется, совпавший код не потребляется.
package validateotp

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
	"github.com/magabrotheeeer/estate-aggregator/internal/services/auth"
)

// Request — входные данные для проверки кода.
type Request struct {
	Email string `json:"email" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

// Service описывает интерфейс бизнес-логики проверки кода.
type Service interface {
	ValidateOTP(ctx context.Context, email, suppliedCode string) error
}

// Handler обрабатывает HTTP-запросы проверки кода подтверждения.
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
// @Summary Проверка кода подтверждения
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Email и код"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "Нет кода, код истек или не совпал"
// @Failure 404 {object} response.Response "Пользователь не найден"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /api/auth/validate-otp [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.validateotp"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Email and OTP are required.", http.StatusBadRequest))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Email and OTP are required.", http.StatusBadRequest))
		return
	}

	err := h.service.ValidateOTP(r.Context(), req.Email, req.OTP)
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("User not found.", http.StatusNotFound))
		return
	case errors.Is(err, auth.ErrNoOTPPending):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("No OTP found for this user. Please request a new one.", http.StatusBadRequest))
		return
	case errors.Is(err, auth.ErrOTPExpired):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("OTP has expired. Please request a new one.", http.StatusBadRequest))
		return
	case errors.Is(err, auth.ErrOTPMismatch):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid OTP. Please try again.", http.StatusBadRequest))
		return
	case err != nil:
		log.Error("otp validation failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error while validating OTP.", http.StatusInternalServerError))
		return
	}

	log.Info("otp validated", slog.String("email", req.Email))
	render.JSON(w, r, response.OK(map[string]any{
		"message": "OTP validated successfully.",
	}))
}
