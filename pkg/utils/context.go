package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ActorIDKey   contextKey = "actor_id"
	ActorRoleKey contextKey = "actor_role"
)

// SetActorContext stores the caller resolved by the actor middleware.
func SetActorContext(ctx context.Context, actorID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, ActorIDKey, actorID.String())
	ctx = context.WithValue(ctx, ActorRoleKey, role)
	return ctx
}

func GetActorIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	actorIDVal := ctx.Value(ActorIDKey)
	if actorIDVal == nil {
		return uuid.Nil, false
	}

	actorIDStr, ok := actorIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	actorID, err := uuid.Parse(actorIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return actorID, true
}

func GetActorRoleFromContext(ctx context.Context) (string, bool) {
	roleVal := ctx.Value(ActorRoleKey)
	if roleVal == nil {
		return "", false
	}

	role, ok := roleVal.(string)
	return role, ok
}
