package bset

import "testing"

func TestSetAddTest(t *testing.T) {
	tests := []struct {
		name  string
		bytes []byte
		probe byte
		want  bool
	}{
		{"member", []byte{'a', 'b', 'c'}, 'b', true},
		{"non-member", []byte{'a', 'b', 'c'}, 'z', false},
		{"zero byte", []byte{0}, 0, true},
		{"max byte", []byte{255}, 255, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Set
			for _, b := range tt.bytes {
				s.Add(b)
			}
			if got := s.Test(tt.probe); got != tt.want {
				t.Errorf("Test(%d) = %v, want %v", tt.probe, got, tt.want)
			}
		})
	}
}

func TestSetInvert(t *testing.T) {
	var s Set
	s.Add('a')
	inv := s.Invert()
	if inv.Test('a') {
		t.Error("inverted set still contains 'a'")
	}
	if !inv.Test('b') {
		t.Error("inverted set should contain 'b'")
	}
}

func TestSetUnion(t *testing.T) {
	var a, b Set
	a.Add('a')
	b.Add('b')
	a.Union(b)
	if !a.Test('a') || !a.Test('b') {
		t.Error("union should contain both members")
	}
}

func TestAllSetIsFull(t *testing.T) {
	s := All()
	for i := 0; i < 256; i++ {
		if !s.Test(byte(i)) {
			t.Fatalf("All() missing byte %d", i)
		}
	}
}

func TestStrEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"equal", "abc", "abc", true},
		{"different length", "abc", "ab", false},
		{"different content", "abc", "abd", false},
		{"empty both", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(FromString(tt.a), FromString(tt.b)); got != tt.want {
				t.Errorf("Equal(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestConcat(t *testing.T) {
	got := Concat(FromString("foo"), FromString("bar"))
	if got.String() != "foobar" {
		t.Errorf("Concat = %q, want %q", got.String(), "foobar")
	}
}

func TestConcatCString(t *testing.T) {
	got := ConcatCString(FromString("foo"), "bar")
	if got.String() != "foobar" {
		t.Errorf("ConcatCString = %q, want %q", got.String(), "foobar")
	}
}

func TestIndexInOrderedList(t *testing.T) {
	list := []Str{FromString("a"), FromString("b"), FromString("c")}
	if idx := IndexInOrderedList(list, FromString("b")); idx != 1 {
		t.Errorf("IndexInOrderedList = %d, want 1", idx)
	}
	if idx := IndexInOrderedList(list, FromString("z")); idx != -1 {
		t.Errorf("IndexInOrderedList(missing) = %d, want -1", idx)
	}
}

func TestNewDuplicatesBuffer(t *testing.T) {
	buf := []byte("hello")
	s := New(buf)
	buf[0] = 'H'
	if s.String() != "hello" {
		t.Errorf("New did not duplicate buffer: got %q", s.String())
	}
}
