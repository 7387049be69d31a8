// Package sendotp реализует HTTP-обработчик выдачи кода подтверждения:
// проверяет существование пользователя, выдает код и отправляет его письмом.
package sendotp

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

// Request — входные данные для выдачи кода.
type Request struct {
	Email string `json:"email" validate:"required"`
}

// Service описывает интерфейс бизнес-логики выдачи кода.
type Service interface {
	SendOTP(ctx context.Context, email string) error
}

// Handler обрабатывает HTTP-запросы выдачи кода подтверждения.
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
// @Summary Выдача кода подтверждения на email
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Email пользователя"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "Email не указан"
// @Failure 404 {object} response.Response "Пользователь не найден"
// @Failure 500 {object} response.Response "Сбой доставки или внутренняя ошибка"
// @Router /api/auth/validateUserAndSendOtp [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.sendotp"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Email is required.", http.StatusBadRequest))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Email is required.", http.StatusBadRequest))
		return
	}

	err := h.service.SendOTP(r.Context(), req.Email)
	var deliveryErr *auth.DeliveryError
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		log.Info("user not found", slog.String("email", req.Email))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("User not found.", http.StatusNotFound))
		return
	case errors.As(err, &deliveryErr):
		// Код уже выдан и сохранен; не удалась только доставка.
		log.Error("otp delivery failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(deliveryErr.Message, http.StatusInternalServerError))
		return
	case err != nil:
		log.Error("failed to issue otp", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error while processing OTP request.", http.StatusInternalServerError))
		return
	}

	log.Info("otp sent", slog.String("email", req.Email))
	render.JSON(w, r, response.OK(map[string]any{
		"message": "Verification code sent successfully.",
		"email":   req.Email,
	}))
}
