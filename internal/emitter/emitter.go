// Package emitter is the process-wide event emitter the typed facades in
// internal/events delegate to. It owns listener registration, ordering,
// once and async handling, namespace wildcards and listener error policy.
package emitter

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/typed-emitter/internal/errors"
	"github.com/KirkDiggler/typed-emitter/internal/logging"
	"github.com/KirkDiggler/typed-emitter/internal/uuid"
)

const (
	// DefaultDelimiter separates namespace segments inside a name
	DefaultDelimiter = "."

	// DefaultMaxListeners is the per-event count above which a warning is logged
	DefaultMaxListeners = 10
)

// Config holds emitter settings
type Config struct {
	// Wildcard enables "*" and "**" in listener patterns
	Wildcard bool

	// Delimiter splits names into namespace segments, "." when empty
	Delimiter string

	// MaxListeners per event before a leak warning; 0 disables the check
	MaxListeners int

	Logger  *zerolog.Logger
	Metrics *Metrics
	IDs     uuid.Generator
}

type entry struct {
	sub      Subscription
	key      string
	label    string
	listener Listener
	opts     Options
	order    int64
	fired    atomic.Bool
}

type channel struct {
	pattern  []Segment
	wildcard bool
	entries  []*entry
	warned   bool
}

// Emitter dispatches events to listeners
type Emitter struct {
	cfg    Config
	log    zerolog.Logger
	ids    uuid.Generator
	mu     sync.RWMutex
	chans  map[string]*channel
	byID   map[string]*entry
	next   int64
	before int64
}

// New creates an emitter
func New(cfg Config) *Emitter {
	if cfg.Delimiter == "" {
		cfg.Delimiter = DefaultDelimiter
	}

	log := logging.Nop
	if cfg.Logger != nil {
		log = cfg.Logger.With().Str("component", "emitter").Logger()
	}

	ids := cfg.IDs
	if ids == nil {
		ids = uuid.NewGoogleUUIDGenerator()
	}

	return &Emitter{
		cfg:   cfg,
		log:   log,
		ids:   ids,
		chans: make(map[string]*channel),
		byID:  make(map[string]*entry),
	}
}

// On registers a listener for an event identifier or, with wildcards enabled,
// an identifier pattern
func (e *Emitter) On(id Identifier, listener Listener, opts Options) (Subscription, error) {
	if listener == nil {
		return Subscription{}, errors.InvalidArgument("listener cannot be nil")
	}

	segments, key, err := e.normalize(id)
	if err != nil {
		return Subscription{}, err
	}

	en := &entry{
		sub:      Subscription{ID: e.ids.New(), Event: id},
		key:      key,
		label:    id.String(),
		listener: listener,
		opts:     opts,
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if opts.Prepend {
		e.before--
		en.order = e.before
	} else {
		e.next++
		en.order = e.next
	}

	ch, ok := e.chans[key]
	if !ok {
		ch = &channel{
			pattern:  segments,
			wildcard: e.cfg.Wildcard && hasWildcard(segments),
		}
		e.chans[key] = ch
	}
	ch.entries = append(ch.entries, en)
	sortEntries(ch.entries)
	e.byID[en.sub.ID] = en

	if limit := e.cfg.MaxListeners; limit > 0 && len(ch.entries) > limit && !ch.warned {
		ch.warned = true
		e.log.Warn().
			Str("event", en.label).
			Int("listeners", len(ch.entries)).
			Int("max", limit).
			Msg("possible listener leak")
	}

	e.cfg.Metrics.setListeners(en.label, len(ch.entries))
	e.log.Debug().
		Str("event", en.label).
		Str("subscription", en.sub.ID).
		Int("priority", opts.Priority).
		Msg("subscribed")

	return en.sub, nil
}

// Once registers a listener that is removed before its first invocation
func (e *Emitter) Once(id Identifier, listener Listener, opts Options) (Subscription, error) {
	opts.Once = true
	return e.On(id, listener, opts)
}

// Off removes a listener
func (e *Emitter) Off(sub Subscription) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	en, ok := e.byID[sub.ID]
	if !ok {
		return errors.NotFoundf("subscription %s not found", sub.ID).WithMeta("subscription", sub.ID)
	}
	e.removeLocked(en)
	return nil
}

// RemoveAllListeners removes every listener registered under id. A zero
// identifier removes all listeners.
func (e *Emitter) RemoveAllListeners(id Identifier) error {
	if id.IsZero() {
		e.Clear()
		return nil
	}

	_, key, err := e.normalize(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ch, ok := e.chans[key]
	if !ok {
		return nil
	}
	for _, en := range ch.entries {
		delete(e.byID, en.sub.ID)
	}
	delete(e.chans, key)
	e.cfg.Metrics.setListeners(id.String(), 0)
	return nil
}

// Clear removes all listeners
func (e *Emitter) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, ch := range e.chans {
		if len(ch.entries) > 0 {
			e.cfg.Metrics.setListeners(ch.entries[0].label, 0)
		}
	}
	e.chans = make(map[string]*channel)
	e.byID = make(map[string]*entry)
	e.log.Debug().Msg("cleared all listeners")
}

// ListenerCount returns the number of listeners registered under exactly id
func (e *Emitter) ListenerCount(id Identifier) int {
	_, key, err := e.normalize(id)
	if err != nil {
		return 0
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if ch, ok := e.chans[key]; ok {
		return len(ch.entries)
	}
	return 0
}

// EventNames returns the identifiers that currently have listeners, ordered by
// their string form
func (e *Emitter) EventNames() []Identifier {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]Identifier, 0, len(e.chans))
	for _, ch := range e.chans {
		if len(ch.entries) > 0 {
			names = append(names, ch.entries[0].sub.Event)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return names[i].String() < names[j].String()
	})
	return names
}

// Emit invokes matching listeners in priority order and reports whether any
// listener was invoked. The first listener error stops dispatch and is returned.
func (e *Emitter) Emit(id Identifier, payload any) (bool, error) {
	segments, _, err := e.normalize(id)
	if err != nil {
		return false, err
	}

	label := id.String()
	e.cfg.Metrics.observeEmit(label)

	entries := e.matching(segments)
	e.log.Debug().Str("event", label).Int("listeners", len(entries)).Msg("emitting")
	return e.dispatch(label, entries, payload)
}

// dispatch runs entries in order and reports whether any of them was
// invoked. Once entries claimed by a concurrent emission are skipped.
func (e *Emitter) dispatch(label string, entries []*entry, payload any) (bool, error) {
	ctx := context.Background()
	invoked := false
	for _, en := range entries {
		if !e.claim(en) {
			continue
		}
		invoked = true

		if en.opts.Async {
			go e.detached(ctx, en, label, payload)
			continue
		}

		if _, err := en.listener(ctx, payload); err != nil {
			if e.handleError(en, label, err) {
				continue
			}
			return true, errors.Wrapf(err, "listener %s failed", en.sub.ID)
		}
	}

	return invoked, nil
}

// EmitAsync invokes matching listeners concurrently and waits for all of
// them. Results are returned in dispatch order. The first error cancels the
// context handed to the remaining listeners and is returned.
func (e *Emitter) EmitAsync(ctx context.Context, id Identifier, payload any) ([]any, error) {
	segments, _, err := e.normalize(id)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	label := id.String()
	e.cfg.Metrics.observeEmit(label)

	entries := e.matching(segments)
	e.log.Debug().Str("event", label).Int("listeners", len(entries)).Msg("emitting async")

	results := make([]any, len(entries))
	ran := make([]bool, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	for i, en := range entries {
		if !e.claim(en) {
			continue
		}
		ran[i] = true

		g.Go(func() error {
			res, err := safeInvoke(gctx, en, payload)
			if err != nil {
				if e.handleError(en, label, err) {
					return nil
				}
				return errors.Wrapf(err, "listener %s failed", en.sub.ID)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]any, 0, len(entries))
	for i := range entries {
		if ran[i] {
			out = append(out, results[i])
		}
	}
	return out, nil
}

func (e *Emitter) normalize(id Identifier) ([]Segment, string, error) {
	if err := validate(id.segments); err != nil {
		return nil, "", err
	}

	segments := split(id.segments, e.cfg.Delimiter)
	if err := validate(segments); err != nil {
		return nil, "", errors.Wrapf(err, "event %q", id.String())
	}
	return segments, canonicalKey(segments), nil
}

// matching snapshots the listeners for an event so none run under the lock
func (e *Emitter) matching(segments []Segment) []*entry {
	key := canonicalKey(segments)

	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.cfg.Wildcard {
		ch, ok := e.chans[key]
		if !ok {
			return nil
		}
		out := make([]*entry, len(ch.entries))
		copy(out, ch.entries)
		return out
	}

	var out []*entry
	sources := 0
	for k, ch := range e.chans {
		hit := k == key
		if !hit && ch.wildcard {
			hit = matches(ch.pattern, segments)
		}
		if !hit {
			continue
		}
		out = append(out, ch.entries...)
		sources++
	}

	if sources > 1 {
		sortEntries(out)
	}
	return out
}

// claim reports whether en may run; once listeners are removed on first claim
func (e *Emitter) claim(en *entry) bool {
	if !en.opts.Once {
		return true
	}
	if !en.fired.CompareAndSwap(false, true) {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.byID[en.sub.ID]; ok {
		e.removeLocked(en)
	}
	return true
}

func (e *Emitter) removeLocked(en *entry) {
	delete(e.byID, en.sub.ID)

	ch, ok := e.chans[en.key]
	if !ok {
		return
	}
	for i, other := range ch.entries {
		if other != en {
			continue
		}
		ch.entries = append(ch.entries[:i:i], ch.entries[i+1:]...)
		break
	}
	if len(ch.entries) == 0 {
		delete(e.chans, en.key)
	}

	e.cfg.Metrics.setListeners(en.label, len(ch.entries))
	e.log.Debug().Str("event", en.label).Str("subscription", en.sub.ID).Msg("unsubscribed")
}

// handleError records a listener failure and reports whether it was suppressed
func (e *Emitter) handleError(en *entry, label string, err error) bool {
	e.cfg.Metrics.observeListenerError(label)
	if !en.opts.SuppressErrors {
		return false
	}

	e.log.Warn().
		Err(err).
		Str("event", label).
		Str("subscription", en.sub.ID).
		Msg("listener error suppressed")
	return true
}

func (e *Emitter) detached(ctx context.Context, en *entry, label string, payload any) {
	if _, err := safeInvoke(ctx, en, payload); err != nil {
		e.cfg.Metrics.observeListenerError(label)
		e.log.Error().
			Err(err).
			Str("event", label).
			Str("subscription", en.sub.ID).
			Msg("async listener failed")
	}
}

func safeInvoke(ctx context.Context, en *entry, payload any) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.CodeInternal, "listener %s panicked: %v", en.sub.ID, r)
		}
	}()
	return en.listener(ctx, payload)
}

func sortEntries(entries []*entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].opts.Priority != entries[j].opts.Priority {
			return entries[i].opts.Priority < entries[j].opts.Priority
		}
		return entries[i].order < entries[j].order
	})
}

func errInvalid(msg string) error {
	return errors.InvalidArgument(fmt.Sprintf("invalid event identifier: %s", msg))
}
