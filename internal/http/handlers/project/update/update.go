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

	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
	"github.com/magabrotheeeer/estate-aggregator/internal/storage/repository"
)

// Request — частичное обновление проекта: nil-поля не меняются.
type Request struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Location    *Location `json:"location"`
	Developer   *string   `json:"developer"`
}

// Location — координаты проекта: [долгота, широта].
type Location struct {
	Coordinates []float64 `json:"coordinates"`
}

type Service interface {
	Get(ctx context.Context, projectUID string) (*models.ProjectWithProperties, error)
	Update(ctx context.Context, p *models.Project) error
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
	const op = "handlers.project.update"

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

	projectUID := chi.URLParam(r, "id")
	existing, err := h.service.Get(r.Context(), projectUID)
	if errors.Is(err, repository.ErrProjectNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Project not found.", http.StatusNotFound))
		return
	}
	if err != nil {
		log.Error("failed to read project", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error while updating project.", http.StatusInternalServerError))
		return
	}

	project := existing.Project
	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Location != nil && len(req.Location.Coordinates) == 2 {
		project.Longitude = req.Location.Coordinates[0]
		project.Latitude = req.Location.Coordinates[1]
	}
	if req.Developer != nil {
		project.Developer = *req.Developer
	}

	if err := h.service.Update(r.Context(), &project); err != nil {
		log.Error("failed to update project", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error while updating project.", http.StatusInternalServerError))
		return
	}

	render.JSON(w, r, response.OK(map[string]any{
		"message": "Project updated successfully.",
		"project": project,
	}))
}
