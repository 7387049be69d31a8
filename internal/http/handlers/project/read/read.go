package read

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
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
	"github.com/magabrotheeeer/estate-aggregator/internal/storage/repository"
)

type Service interface {
	Get(ctx context.Context, projectUID string) (*models.ProjectWithProperties, error)
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
	const op = "handlers.project.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	projectUID := chi.URLParam(r, "id")
	project, err := h.service.Get(r.Context(), projectUID)
	if errors.Is(err, repository.ErrProjectNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Project not found.", http.StatusNotFound))
		return
	}
	if err != nil {
		log.Error("failed to read project", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error while fetching project.", http.StatusInternalServerError))
		return
	}

	render.JSON(w, r, response.OK(project))
}
