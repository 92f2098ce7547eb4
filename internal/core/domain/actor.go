package domain

import "context"

type actorKey struct{}

// Actor identifies who issued a request. Every field may be empty for
// anonymous callers.
type Actor struct {
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
}

// IsAnonymous reports whether no identity could be resolved.
func (a Actor) IsAnonymous() bool {
	return a.Name == "" && a.UserID == ""
}

// WithActor returns a copy of ctx carrying the actor.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext extracts the actor stored by WithActor.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
