// Package intern implements Aspic's string interning set: an
// open-addressed, content-addressed table of strings such that two
// occurrences of the same text always resolve to the same *Str pointer,
// making string equality a pointer comparison everywhere else in the VM.
package intern

const (
	maxLoad      = 0.75
	minCapacity  = 8
	growthFactor = 2
)

// Str is an interned string. Its address is its identity: the VM and
// table packages compare strings by comparing *Str pointers, never by
// comparing Chars.
type Str struct {
	Chars string
	Hash  uint32
}

// HashFNV1a computes the FNV-1a hash used for every interned string.
func HashFNV1a(s string) uint32 {
	var hash uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= 16777619
	}
	return hash
}

type entry struct {
	str       *Str
	tombstone bool
}

// Set is the interning table. The zero value is ready to use.
type Set struct {
	entries            []entry
	count              int
	countWithTombstone int
}

func findEntry(entries []entry, capacity int, str *Str) *entry {
	index := int(str.Hash % uint32(capacity))
	var tombstone *entry

	for {
		e := &entries[index]
		if e.str == nil {
			if !e.tombstone {
				if tombstone != nil {
					return tombstone
				}
				return e
			}
			if tombstone == nil {
				tombstone = e
			}
		} else if e.str == str {
			return e
		}
		index = (index + 1) % capacity
	}
}

func (s *Set) adjustCapacity(newCapacity int) {
	entries := make([]entry, newCapacity)

	s.count = 0
	s.countWithTombstone = 0
	for i := range s.entries {
		cur := &s.entries[i]
		if cur.str != nil {
			dest := findEntry(entries, newCapacity, cur.str)
			dest.str = cur.str
			s.count++
			s.countWithTombstone++
		}
	}

	s.entries = entries
}

// Intern returns the canonical *Str for chars, allocating and registering a
// new one only if chars has never been seen before. Repeated interning of
// the same text never allocates past the first call.
func (s *Set) Intern(chars string) *Str {
	hash := HashFNV1a(chars)
	if existing := s.find(chars, hash); existing != nil {
		return existing
	}

	str := &Str{Chars: chars, Hash: hash}
	s.add(str)
	return str
}

// find probes the set for chars without allocating a Str, mirroring the
// "no allocation on a successful lookup" guarantee the VM relies on when
// concatenating or repeating strings.
func (s *Set) find(chars string, hash uint32) *Str {
	if s.count == 0 {
		return nil
	}

	capacity := len(s.entries)
	index := int(hash % uint32(capacity))
	for {
		e := &s.entries[index]
		if e.str == nil {
			if !e.tombstone {
				return nil
			}
		} else if e.str.Hash == hash && e.str.Chars == chars {
			return e.str
		}
		index = (index + 1) % capacity
	}
}

func (s *Set) add(str *Str) bool {
	if float64(s.countWithTombstone+1) > float64(len(s.entries))*maxLoad {
		capacity := minCapacity
		if len(s.entries) >= minCapacity {
			capacity = len(s.entries) * growthFactor
		}
		s.adjustCapacity(capacity)
	}

	e := findEntry(s.entries, len(s.entries), str)
	newKey := e.str == nil
	if newKey {
		s.count++
		if !e.tombstone {
			s.countWithTombstone++
		}
	}
	e.str = str
	e.tombstone = false
	return newKey
}

// Delete removes str from the set, leaving a tombstone behind so later
// probes for colliding keys keep working.
func (s *Set) Delete(str *Str) bool {
	if s.count == 0 {
		return false
	}
	e := findEntry(s.entries, len(s.entries), str)
	if e.str == nil {
		return false
	}
	e.str = nil
	e.tombstone = true
	s.count--
	return true
}

// Len reports the number of distinct interned strings.
func (s *Set) Len() int {
	return s.count
}

// All returns every interned string, in bucket order, for "strings" REPL
// command support.
func (s *Set) All() []*Str {
	out := make([]*Str, 0, s.count)
	for i := range s.entries {
		if s.entries[i].str != nil {
			out = append(out, s.entries[i].str)
		}
	}
	return out
}
