package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/storage/repository"
)

type Service interface {
	RemoveProperty(ctx context.Context, propertyUID string) error
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
	const op = "handlers.property.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	propertyUID := chi.URLParam(r, "propertyId")

	err := h.service.RemoveProperty(r.Context(), propertyUID)
	if errors.Is(err, repository.ErrPropertyNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Property not found.", http.StatusNotFound))
		return
	}
	if err != nil {
		log.Error("failed to remove property", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error while removing property.", http.StatusInternalServerError))
		return
	}

	render.JSON(w, r, response.OK(map[string]any{
		"message": "Property removed successfully.",
	}))
}
