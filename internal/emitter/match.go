package emitter

const (
	wildcardOne  = Name("*")
	wildcardMany = Name("**")
)

func hasWildcard(pattern []Segment) bool {
	for _, s := range pattern {
		if s == wildcardOne || s == wildcardMany {
			return true
		}
	}
	return false
}

// matches reports whether an emitted event hits a listener pattern.
// "*" matches exactly one name segment, "**" matches zero or more name
// segments. Symbols only match the same symbol.
func matches(pattern, event []Segment) bool {
	if len(pattern) == 0 {
		return len(event) == 0
	}

	head := pattern[0]
	switch head {
	case wildcardMany:
		if matches(pattern[1:], event) {
			return true
		}
		if len(event) > 0 && isName(event[0]) {
			return matches(pattern, event[1:])
		}
		return false
	case wildcardOne:
		if len(event) == 0 || !isName(event[0]) {
			return false
		}
		return matches(pattern[1:], event[1:])
	}

	if len(event) == 0 || !sameSegment(head, event[0]) {
		return false
	}
	return matches(pattern[1:], event[1:])
}

func isName(s Segment) bool {
	_, ok := s.(Name)
	return ok
}

func sameSegment(a, b Segment) bool {
	switch av := a.(type) {
	case Name:
		bv, ok := b.(Name)
		return ok && av == bv
	case *Symbol:
		bv, ok := b.(*Symbol)
		return ok && av == bv
	}
	return false
}
