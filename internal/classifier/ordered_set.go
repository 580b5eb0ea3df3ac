package classifier

// orderedSet keeps the first-seen order of its members and ignores repeats.
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(values ...string) {
	for _, v := range values {
		if _, ok := s.seen[v]; ok {
			continue
		}
		s.seen[v] = struct{}{}
		s.items = append(s.items, v)
	}
}

// first returns at most n members in insertion order, never nil.
func (s *orderedSet) first(n int) []string {
	if len(s.items) < n {
		n = len(s.items)
	}
	out := make([]string, n)
	copy(out, s.items[:n])
	return out
}
