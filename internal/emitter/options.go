package emitter

import "context"

// Listener handles one emission. The returned value is collected by EmitAsync
// and ignored by Emit.
type Listener func(ctx context.Context, payload any) (any, error)

// Options control how a listener is registered and invoked
type Options struct {
	// Priority orders listeners; lower runs first
	Priority int

	// Once removes the listener before its first invocation
	Once bool

	// Async runs the listener on its own goroutine during Emit. Its error is
	// logged rather than returned. EmitAsync always waits for every listener.
	Async bool

	// SuppressErrors logs and drops the listener's error
	SuppressErrors bool

	// Prepend places the listener ahead of earlier listeners with the same priority
	Prepend bool
}

// Subscription identifies one registered listener
type Subscription struct {
	ID    string
	Event Identifier
}
