package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
)

// RequireRoles возвращает middleware, пропускающий только пользователей
// с одной из перечисленных ролей. Ставится после JWTMiddleware.
func RequireRoles(log *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, role := ActorFromContext(r.Context())
			if _, ok := allowed[role]; !ok {
				log.Error("forbidden for role", slog.String("role", role))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("insufficient permissions", http.StatusForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
