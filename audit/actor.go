package audit

import "context"

// Actor identifies who triggered a table mutation.
type Actor struct {
	TraceID   string
	AccountID *int64
	IP        string
}

type actorKey struct{}

// WithActor attaches a to ctx so hooks fired further down can attribute events.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the actor stored in ctx, or the zero Actor.
func ActorFrom(ctx context.Context) Actor {
	a, _ := ctx.Value(actorKey{}).(Actor)
	return a
}
