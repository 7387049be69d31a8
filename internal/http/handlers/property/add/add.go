package add

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
	"github.com/magabrotheeeer/estate-aggregator/internal/storage/repository"
)

// Request — входные данные для добавления объекта в проект.
type Request struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"required,oneof=chalet apartment twin_villa standalone_villa"`
	AreaRange   string `json:"areaRange" validate:"required,oneof=less_than_100 100_to_150 150_to_200 over_200"`
	PriceRange  string `json:"priceRange" validate:"required,oneof=2_to_3_million 3_to_4_million 4_to_5_million over_5_million"`
	Status      string `json:"status" validate:"omitempty,oneof=available reserved sold"`
}

type Service interface {
	AddProperty(ctx context.Context, p models.Property) (string, error)
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
	const op = "handlers.property.add"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Title, type, areaRange and priceRange are required.", http.StatusBadRequest))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Title, type, areaRange and priceRange are required.", http.StatusBadRequest))
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusAvailable
	}
	property := models.Property{
		ProjectUID:  chi.URLParam(r, "id"),
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		AreaRange:   req.AreaRange,
		PriceRange:  req.PriceRange,
		Status:      status,
	}

	uid, err := h.service.AddProperty(r.Context(), property)
	if errors.Is(err, repository.ErrProjectNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Project not found.", http.StatusNotFound))
		return
	}
	if err != nil {
		log.Error("failed to add property", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error while adding property.", http.StatusInternalServerError))
		return
	}

	property.UID = uid
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OK(map[string]any{
		"message":  "Property added successfully.",
		"property": property,
	}))
}
