// Package container is a small typed registry for process-wide singletons.
// Values are provided once at startup and resolved by token afterwards.
package container

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/KirkDiggler/typed-emitter/internal/emitter"
	"github.com/KirkDiggler/typed-emitter/internal/errors"
)

// Token identifies a value of type T in a Container
type Token[T any] struct {
	name string
}

// NewToken creates a token. Tokens with the same name and type are the same key.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the token's name
func (t Token[T]) Name() string { return t.name }

func (t Token[T]) String() string {
	return fmt.Sprintf("%s(%s)", t.name, reflect.TypeFor[T]())
}

func (t Token[T]) key() tokenKey {
	return tokenKey{name: t.name, typ: reflect.TypeFor[T]()}
}

type tokenKey struct {
	name string
	typ  reflect.Type
}

// Container holds provided values
type Container struct {
	mu     sync.RWMutex
	values map[tokenKey]any
}

// New creates an empty container
func New() *Container {
	return &Container{values: make(map[tokenKey]any)}
}

// Provide stores value under token. A token can only be provided once.
func Provide[T any](c *Container, token Token[T], value T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := token.key()
	if _, ok := c.values[key]; ok {
		return errors.AlreadyExistsf("%s already provided", token.name).
			WithMeta("token", token.name)
	}
	c.values[key] = value
	return nil
}

// Resolve returns the value provided for token
func Resolve[T any](c *Container, token Token[T]) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.values[token.key()]
	if !ok {
		var zero T
		return zero, errors.NotFoundf("%s not provided", token.name).
			WithMeta("token", token.name)
	}
	typed, _ := value.(T)
	return typed, nil
}

// MustResolve is Resolve for startup code where a missing value is a bug
func MustResolve[T any](c *Container, token Token[T]) T {
	value, err := Resolve(c, token)
	if err != nil {
		panic(err)
	}
	return value
}

// EventEmitterToken is the key of the process-wide event emitter. Typed
// facades are built on top of the emitter resolved with it.
var EventEmitterToken = NewToken[*emitter.Emitter]("EventEmitter")

// ProvideEventEmitter registers the shared emitter
func ProvideEventEmitter(c *Container, em *emitter.Emitter) error {
	if em == nil {
		return errors.InvalidArgument("event emitter is required")
	}
	return Provide(c, EventEmitterToken, em)
}

// InjectEventEmitter resolves the shared emitter
func InjectEventEmitter(c *Container) (*emitter.Emitter, error) {
	return Resolve(c, EventEmitterToken)
}
