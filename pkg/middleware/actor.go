package middleware

import (
	"net/http"
	"slices"

	"cleaning-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ActorIDHeader   = "X-Actor-ID"
	ActorRoleHeader = "X-Actor-Role"
)

// Actor resolves the caller from the X-Actor-ID and X-Actor-Role headers set
// by the upstream gateway. Authentication happens before the request gets here.
func Actor(logger *zap.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := r.Header.Get(ActorIDHeader)
			role := r.Header.Get(ActorRoleHeader)
			if rawID == "" || role == "" {
				utils.ResponseUnauthorized(w, "Missing actor headers")
				return
			}

			actorID, err := uuid.Parse(rawID)
			if err != nil {
				logger.Warn("Invalid actor id", zap.String("actor_id", rawID))
				utils.ResponseUnauthorized(w, "Invalid actor id")
				return
			}

			if !slices.Contains(roles, role) {
				logger.Warn("Unknown actor role",
					zap.String("actor_id", rawID),
					zap.String("role", role),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Unknown actor role")
				return
			}

			ctx := utils.SetActorContext(r.Context(), actorID, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
