package events

import (
	"context"

	"github.com/KirkDiggler/typed-emitter/internal/emitter"
)

//go:generate mockgen -destination=mocks/mock_bus.go -package=mocks github.com/KirkDiggler/typed-emitter/internal/events Bus

// Bus is the untyped emitter the facades delegate to. *emitter.Emitter
// satisfies it.
type Bus interface {
	// Emit invokes listeners for id and reports whether any matched
	Emit(id emitter.Identifier, payload any) (bool, error)

	// EmitAsync invokes listeners for id and collects their results
	EmitAsync(ctx context.Context, id emitter.Identifier, payload any) ([]any, error)

	// On registers a listener for id
	On(id emitter.Identifier, listener emitter.Listener, opts emitter.Options) (emitter.Subscription, error)

	// Off removes a listener
	Off(sub emitter.Subscription) error
}

var _ Bus = (*emitter.Emitter)(nil)
