// Package signup реализует HTTP-обработчик регистрации пользователя.
package signup

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

// Request — входные данные для регистрации. Роль необязательна:
// недопустимое значение заменяется сервисом на buyer.
type Request struct {
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Phone           string `json:"phone" validate:"required"`
	Role            string `json:"role"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Signup(ctx context.Context, username, email, rawPassword, phone, role string) (string, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
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
// @Summary Регистрация пользователя
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Данные нового пользователя"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response "Некорректный JSON или валидация"
// @Failure 409 {object} response.Response "Email или username заняты"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /api/auth/signup [post]
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
		render.JSON(w, r, response.Error("All fields are required.", http.StatusBadRequest))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			log.Error("validation failed", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			if req.Password != req.ConfirmPassword && req.Password != "" && req.ConfirmPassword != "" {
				render.JSON(w, r, response.Error("Passwords do not match.", http.StatusBadRequest))
				return
			}
			render.JSON(w, r, response.ValidationError(validateErrs))
			return
		}
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("All fields are required.", http.StatusBadRequest))
		return
	}

	_, err := h.service.Signup(r.Context(), req.Username, req.Email, req.Password, req.Phone, req.Role)
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		log.Info("email already in use", slog.String("email", req.Email))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("Email already in use.", http.StatusConflict))
		return
	case errors.Is(err, auth.ErrUsernameTaken):
		log.Info("username already taken", slog.String("username", req.Username))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("Username already taken. Please choose a different one.", http.StatusConflict))
		return
	case err != nil:
		log.Error("signup failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error while creating user.", http.StatusInternalServerError))
		return
	}

	log.Info("user created", slog.String("username", req.Username))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OK(map[string]any{
		"message": "User created successfully.",
	}))
}
