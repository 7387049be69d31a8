package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// Request — входные данные для создания проекта.
type Request struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	Location    *Location `json:"location" validate:"required"`
	Developer   string    `json:"developer"`
}

// Location — координаты проекта: [долгота, широта].
type Location struct {
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
}

type Service interface {
	Create(ctx context.Context, p models.Project) (string, error)
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
	const op = "handlers.project.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Name and location with coordinates are required.", http.StatusBadRequest))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Name and location with coordinates are required.", http.StatusBadRequest))
		return
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		Longitude:   req.Location.Coordinates[0],
		Latitude:    req.Location.Coordinates[1],
		Developer:   req.Developer,
	}
	uid, err := h.service.Create(r.Context(), project)
	if err != nil {
		log.Error("failed to create project", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error while creating project.", http.StatusInternalServerError))
		return
	}

	project.UID = uid
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OK(map[string]any{
		"message": "Project created successfully.",
		"project": project,
	}))
}
