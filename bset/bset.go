// Package bset provides the fixed-size byte-set and length-prefixed
// byte-string primitives the rest of the compiler is built on.
//
// A Set is a 256-bit character class stored as 32 bytes (8 32-bit words).
// A Str is an immutable, 8-bit-clean byte string compared by length then
// bytewise, mirroring the original tool's length-prefixed string type.
package bset

import "fmt"

// Set is a 256-bit set of byte values, one bit per possible byte 0..255.
type Set [32]byte

// Add sets b's bit in the set.
func (s *Set) Add(b byte) {
	s[b>>3] |= 1 << (b & 7)
}

// Test reports whether b's bit is set.
func (s Set) Test(b byte) bool {
	return s[b>>3]&(1<<(b&7)) != 0
}

// Invert returns the complement of s: every byte not in s.
func (s Set) Invert() Set {
	var out Set
	for i := range s {
		out[i] = ^s[i]
	}
	return out
}

// Union merges other into s in place.
func (s *Set) Union(other Set) {
	for i := range s {
		s[i] |= other[i]
	}
}

// Equal reports whether two sets contain exactly the same bytes.
func (s Set) Equal(other Set) bool {
	return s == other
}

// IsEmpty reports whether no byte is a member of s.
func (s Set) IsEmpty() bool {
	for _, w := range s {
		if w != 0 {
			return false
		}
	}
	return true
}

// All returns a set containing every byte value 0..255.
func All() Set {
	var s Set
	for i := range s {
		s[i] = 0xFF
	}
	return s
}

// Str is an immutable, length-prefixed, 8-bit-clean byte string.
// Two Strs compare equal when they have the same length and the same
// bytes, in that order — the length check first avoids a bytewise scan
// on an obvious mismatch.
type Str struct {
	b []byte
}

// New duplicates buf into a freshly owned Str.
func New(buf []byte) Str {
	cp := make([]byte, len(buf))
	copy(cp, buf)
	return Str{b: cp}
}

// FromString wraps a Go string as a Str without further allocation beyond
// the copy New already performs.
func FromString(s string) Str {
	return New([]byte(s))
}

// Len returns the string's length in bytes.
func (s Str) Len() int { return len(s.b) }

// Bytes returns the string's bytes. The caller must not mutate the result.
func (s Str) Bytes() []byte { return s.b }

// String renders the byte string for diagnostics; it is not used for
// equality or hashing.
func (s Str) String() string { return string(s.b) }

// Concat returns a new Str holding a's bytes followed by b's.
func Concat(a, b Str) Str {
	out := make([]byte, 0, len(a.b)+len(b.b))
	out = append(out, a.b...)
	out = append(out, b.b...)
	return Str{b: out}
}

// ConcatCString returns a new Str holding a's bytes followed by the bytes
// of a plain Go string, saving callers a FromString+Concat round trip.
func ConcatCString(a Str, s string) Str {
	out := make([]byte, 0, len(a.b)+len(s))
	out = append(out, a.b...)
	out = append(out, s...)
	return Str{b: out}
}

// Equal reports whether a and b hold the same bytes.
func Equal(a, b Str) bool {
	if len(a.b) != len(b.b) {
		return false
	}
	for i := range a.b {
		if a.b[i] != b.b[i] {
			return false
		}
	}
	return true
}

// IndexInOrderedList returns the index of s within an ordered list of Strs
// built by successive insertion, or -1 if s is absent. The list is not
// assumed sorted by byte value — "ordered" here means insertion order, so
// the search is linear, matching the small rule counts this tool compiles.
func IndexInOrderedList(list []Str, s Str) int {
	for i, item := range list {
		if Equal(item, s) {
			return i
		}
	}
	return -1
}

// AllocFailure is the diagnostic produced when an allocation that the
// compiler assumes cannot fail, fails anyway. It is an ordinary error
// value: library code returns it rather than calling os.Exit, and only
// cmd/moonlime exits the process on an error.
type AllocFailure struct {
	File string
	Line int
	Type string
}

func (e *AllocFailure) Error() string {
	return fmt.Sprintf("%s:%d: allocation failure constructing %s", e.File, e.Line, e.Type)
}
