package health

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
)

// Handler отвечает на health-check запросы балансировщика.
type Handler struct {
	db *sql.DB
}

func New(db *sql.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database unavailable", http.StatusServiceUnavailable))
		return
	}
	render.JSON(w, r, response.OK(map[string]any{
		"status": "ok",
	}))
}
