package adaptor

import (
	"errors"
	"net/http"

	"cleaning-service/internal/usecase"
	"cleaning-service/pkg/utils"

	"go.uber.org/zap"
)

// writeServiceError maps a usecase error kind to its HTTP status. Persistence
// failures and untyped errors are logged and hidden behind a generic 500.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var typed *usecase.Error
	message := err.Error()
	if errors.As(err, &typed) {
		message = typed.Message
	}

	switch {
	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err))
		var fields any
		if typed != nil && len(typed.Fields) > 0 {
			fields = typed.Fields
		}
		utils.ResponseBadRequest(w, message, fields)

	case errors.Is(err, usecase.ErrAuthorization):
		log.Warn(operation+" forbidden", zap.Error(err))
		utils.ResponseForbidden(w, message)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, message)

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, message)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// actorFrom reads the caller stored by the actor middleware.
func actorFrom(r *http.Request) (usecase.Actor, bool) {
	id, ok := utils.GetActorIDFromContext(r.Context())
	if !ok {
		return usecase.Actor{}, false
	}
	raw, ok := utils.GetActorRoleFromContext(r.Context())
	if !ok {
		return usecase.Actor{}, false
	}
	role, ok := usecase.ParseRole(raw)
	if !ok {
		return usecase.Actor{}, false
	}
	return usecase.Actor{ID: id, Role: role}, true
}
