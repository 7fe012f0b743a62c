package events_test

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/typed-emitter/internal/emitter"
	"github.com/KirkDiggler/typed-emitter/internal/events"
)

type exampleEvents struct{}

type userSignedUp struct {
	Email string
}

var (
	exampleMap   = events.NewMap[exampleEvents]()
	signedUp     = events.Declare[userSignedUp](exampleMap, "user.signed_up")
	onExample    = events.CreateStrictTypedListener[exampleEvents]()
	onExampleAny = events.CreateTypedListener[exampleEvents]()
)

func Example() {
	bus := emitter.New(emitter.Config{Wildcard: true})

	_, _ = events.OnEvent(onExample, signedUp).
		Func(func(_ context.Context, e userSignedUp) error {
			fmt.Println("welcome", e.Email)
			return nil
		}).
		Register(bus)

	strict := events.NewStrictEmitter(bus, exampleMap)
	ok, err := events.Emit(strict, signedUp, userSignedUp{Email: "ada@example.com"})
	fmt.Println(ok, err)

	// Output:
	// welcome ada@example.com
	// true <nil>
}

func ExampleEmitter_EmitAny() {
	bus := emitter.New(emitter.Config{Wildcard: true})

	_, _ = onExampleAny.OnAny(emitter.Named("user.*")).
		Func(func(_ context.Context, payload any) error {
			fmt.Printf("audit %v\n", payload)
			return nil
		}).
		Register(bus)

	loose := events.NewEmitter(bus, exampleMap)
	_, _ = loose.EmitAny(emitter.Named("user.deleted"), "ada")
	_, _ = events.Emit(loose, signedUp, userSignedUp{Email: "ada@example.com"})

	// Output:
	// audit ada
	// audit {ada@example.com}
}

func ExampleLoader() {
	bus := emitter.New(emitter.Config{})
	loader := events.NewLoader(bus)

	welcome := events.OnEvent(onExample, signedUp, emitter.Options{Once: true}).
		Apply(func(_ context.Context, e userSignedUp) (any, error) {
			return "sent to " + e.Email, nil
		})

	_ = loader.Load(subscriberFunc(func() []events.Binding {
		return []events.Binding{welcome}
	}))

	results, _ := events.EmitAsync(context.Background(), events.NewStrictEmitter(bus, exampleMap), signedUp, userSignedUp{Email: "ada@example.com"})
	fmt.Println(results)

	results, _ = events.EmitAsync(context.Background(), events.NewStrictEmitter(bus, exampleMap), signedUp, userSignedUp{Email: "bob@example.com"})
	fmt.Println(results)

	// Output:
	// [sent to ada@example.com]
	// []
}
