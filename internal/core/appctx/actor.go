// Package appctx carries request-scoped values through context.
package appctx

import (
	"context"

	"merchtable/internal/core/id"
)

// actorKey is the context key for the acting user.
type actorKey struct{}

// Actor identifies who triggered an operation. Every stock mutation and
// sale records the actor for the audit trail.
type Actor struct {
	ActorID id.ID
	Name    string
}

// WithActor stores the actor in context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor returns the actor from context, or nil if absent.
func GetActor(ctx context.Context) *Actor {
	if a, ok := ctx.Value(actorKey{}).(Actor); ok {
		return &a
	}
	return nil
}

// ActorID returns the actor id from context, or id.Nil() if absent.
func ActorID(ctx context.Context) id.ID {
	if a := GetActor(ctx); a != nil {
		return a.ActorID
	}
	return id.Nil()
}
