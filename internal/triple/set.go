package triple

// Set is an insertion-ordered set of triples. For every triple it remembers
// the file it was first seen in.
type Set struct {
	index map[RawTriple]int
	items []Entry
}

// Entry is one member of a Set.
type Entry struct {
	Triple RawTriple
	File   string
}

func NewSet() *Set {
	return &Set{index: make(map[RawTriple]int)}
}

// Add inserts t unless an equal triple is already present. It reports whether
// the set grew.
func (s *Set) Add(t RawTriple, file string) bool {
	if _, ok := s.index[t]; ok {
		return false
	}
	s.index[t] = len(s.items)
	s.items = append(s.items, Entry{Triple: t, File: file})
	return true
}

// Merge adds every entry of other, keeping first-seen order.
func (s *Set) Merge(other *Set) {
	for _, e := range other.items {
		s.Add(e.Triple, e.File)
	}
}

func (s *Set) Len() int { return len(s.items) }

// Entries returns the members in first-seen order. The slice must not be
// modified.
func (s *Set) Entries() []Entry { return s.items }
