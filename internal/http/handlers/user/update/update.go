package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
	userservice "github.com/magabrotheeeer/estate-aggregator/internal/services/user"
	"github.com/magabrotheeeer/estate-aggregator/internal/storage/repository"
)

// Request — частичное обновление профиля. Смена пароля требует
// передачи текущего пароля вместе с новым.
type Request struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

type Service interface {
	Update(ctx context.Context, actorUID, actorRole, targetUID string, req userservice.UpdateRequest) (*models.PublicUser, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body", http.StatusBadRequest))
		return
	}

	actorUID, actorRole := middlewarectx.ActorFromContext(r.Context())
	targetUID := chi.URLParam(r, "id")

	user, err := h.service.Update(r.Context(), actorUID, actorRole, targetUID, userservice.UpdateRequest{
		Username:    req.Username,
		Email:       req.Email,
		Phone:       req.Phone,
		Role:        req.Role,
		Password:    req.Password,
		NewPassword: req.NewPassword,
	})
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("User not found.", http.StatusNotFound))
		return
	case errors.Is(err, userservice.ErrNotAllowed):
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("Not authorized to update this user.", http.StatusForbidden))
		return
	case errors.Is(err, userservice.ErrWrongPassword):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Current password is incorrect.", http.StatusBadRequest))
		return
	case errors.Is(err, userservice.ErrDuplicateIdentity):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("Username or email already in use.", http.StatusConflict))
		return
	case err != nil:
		log.Error("failed to update user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error while updating user.", http.StatusInternalServerError))
		return
	}

	render.JSON(w, r, response.OK(map[string]any{
		"message": "User updated successfully.",
		"user":    user,
	}))
}
