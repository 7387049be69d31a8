package add

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	userservice "github.com/magabrotheeeer/estate-aggregator/internal/services/user"
	"github.com/magabrotheeeer/estate-aggregator/internal/storage/repository"
)

// Request — входные данные для добавления в избранное.
type Request struct {
	PropertyID string `json:"propertyId" validate:"required"`
}

type Service interface {
	AddFavourite(ctx context.Context, userUID, propertyUID string) error
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.favourites.add"

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
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("propertyId is required", http.StatusBadRequest))
		return
	}

	userUID, _ := middlewarectx.ActorFromContext(r.Context())
	err := h.service.AddFavourite(r.Context(), userUID, req.PropertyID)
	switch {
	case errors.Is(err, userservice.ErrAlreadyFavourite):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Property already in favorites.", http.StatusBadRequest))
		return
	case errors.Is(err, repository.ErrPropertyNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Property not found.", http.StatusNotFound))
		return
	case err != nil:
		log.Error("failed to add favourite", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error while adding to favorites.", http.StatusInternalServerError))
		return
	}

	render.JSON(w, r, response.OK(map[string]any{
		"message": "Property added to favorites.",
	}))
}
