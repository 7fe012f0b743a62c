package emitter

import (
	"fmt"
	"strings"
)

// Segment is one element of an event identifier: a Name or a *Symbol
type Segment interface {
	segment()
	String() string
}

// Name is a string event segment. A name containing the emitter's
// delimiter is split into namespace segments when it is registered or emitted.
type Name string

func (Name) segment() {}

func (n Name) String() string { return string(n) }

// Symbol is an event key that only equals itself. Two symbols with the same
// description are different channels.
type Symbol struct {
	description string
}

// NewSymbol creates a unique symbol
func NewSymbol(description string) *Symbol {
	return &Symbol{description: description}
}

func (*Symbol) segment() {}

func (s *Symbol) String() string {
	if s == nil {
		return "Symbol(<nil>)"
	}
	return "Symbol(" + s.description + ")"
}

// Identifier addresses an event channel. It is a single name, a single symbol,
// or an ordered path of both.
type Identifier struct {
	segments []Segment
}

// ID builds an identifier from one or more segments
func ID(segments ...Segment) Identifier {
	copied := make([]Segment, len(segments))
	copy(copied, segments)
	return Identifier{segments: copied}
}

// Named is shorthand for ID(Name(name))
func Named(name string) Identifier {
	return ID(Name(name))
}

// Segments returns a copy of the identifier's segments
func (id Identifier) Segments() []Segment {
	copied := make([]Segment, len(id.segments))
	copy(copied, id.segments)
	return copied
}

// IsZero reports whether the identifier has no segments
func (id Identifier) IsZero() bool {
	return len(id.segments) == 0
}

// IsPath reports whether the identifier was built from more than one segment
func (id Identifier) IsPath() bool {
	return len(id.segments) > 1
}

// String renders the identifier with "." between segments
func (id Identifier) String() string {
	parts := make([]string, len(id.segments))
	for i, s := range id.segments {
		if s == nil {
			parts[i] = "<nil>"
			continue
		}
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Key is the canonical form used to compare identifiers with the default
// delimiter: names are joined by "." and symbols are keyed by identity.
func (id Identifier) Key() string {
	return canonicalKey(split(id.segments, DefaultDelimiter))
}

// Equal reports whether both identifiers address the same channel under the
// default delimiter
func (id Identifier) Equal(other Identifier) bool {
	return id.Key() == other.Key()
}

// split expands names on the delimiter. Symbols pass through untouched.
func split(segments []Segment, delimiter string) []Segment {
	out := make([]Segment, 0, len(segments))
	for _, s := range segments {
		name, ok := s.(Name)
		if !ok || delimiter == "" {
			out = append(out, s)
			continue
		}
		for _, part := range strings.Split(string(name), delimiter) {
			out = append(out, Name(part))
		}
	}
	return out
}

func canonicalKey(segments []Segment) string {
	var b strings.Builder
	for i, s := range segments {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		switch v := s.(type) {
		case Name:
			b.WriteString(string(v))
		case *Symbol:
			fmt.Fprintf(&b, "\x00%p", v)
		}
	}
	return b.String()
}

func validate(segments []Segment) error {
	if len(segments) == 0 {
		return errInvalid("event identifier is empty")
	}
	for i, s := range segments {
		switch v := s.(type) {
		case nil:
			return errInvalid(fmt.Sprintf("segment %d is nil", i))
		case Name:
			if v == "" {
				return errInvalid(fmt.Sprintf("segment %d is an empty name", i))
			}
		case *Symbol:
			if v == nil {
				return errInvalid(fmt.Sprintf("segment %d is a nil symbol", i))
			}
		}
	}
	return nil
}
