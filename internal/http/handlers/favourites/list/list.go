package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

type Service interface {
	ListFavourites(ctx context.Context, userUID string) ([]models.FavouriteEntry, error)
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
	const op = "handlers.favourites.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := middlewarectx.ActorFromContext(r.Context())

	entries, err := h.service.ListFavourites(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list favourites", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error while fetching favorites.", http.StatusInternalServerError))
		return
	}

	render.JSON(w, r, response.OK(map[string]any{
		"favorites": entries,
	}))
}
