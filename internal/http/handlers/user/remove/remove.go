package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	userservice "github.com/magabrotheeeer/estate-aggregator/internal/services/user"
	"github.com/magabrotheeeer/estate-aggregator/internal/storage/repository"
)

type Service interface {
	Delete(ctx context.Context, actorUID, actorRole, targetUID string) error
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
	const op = "handlers.user.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actorUID, actorRole := middlewarectx.ActorFromContext(r.Context())
	targetUID := chi.URLParam(r, "id")

	err := h.service.Delete(r.Context(), actorUID, actorRole, targetUID)
	switch {
	case errors.Is(err, userservice.ErrSelfDelete):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("You cannot delete your own account this way.", http.StatusBadRequest))
		return
	case errors.Is(err, userservice.ErrNotAllowed):
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("Only admins can delete users.", http.StatusForbidden))
		return
	case errors.Is(err, repository.ErrUserNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("User not found.", http.StatusNotFound))
		return
	case err != nil:
		log.Error("failed to delete user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error while deleting user.", http.StatusInternalServerError))
		return
	}

	render.JSON(w, r, response.OK(map[string]any{
		"message": "User deleted successfully.",
	}))
}
