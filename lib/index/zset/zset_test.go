package zset

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
)

func TestInsertAndUpdate(t *testing.T) {
	s := New()

	if !s.Insert("foo", 5.0) {
		t.Fatalf("first Insert(foo) did not report inserted")
	}
	if s.Insert("foo", 7.0) {
		t.Fatalf("second Insert(foo) reported inserted, want updated")
	}

	e, ok := s.Lookup("foo")
	if !ok {
		t.Fatalf("Lookup(foo) failed after update")
	}
	if e.Score() != 7.0 {
		t.Fatalf("score = %v, want 7.0", e.Score())
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want exactly one entry for foo", s.Len())
	}
}

func TestUpdateRepositions(t *testing.T) {
	s := New()
	s.Insert("a", 1)
	s.Insert("b", 2)
	s.Insert("c", 3)

	// move "a" past the others
	s.Insert("a", 10)

	var names []string
	for e := s.First(); e != nil; e = s.Next(e) {
		names = append(names, e.Name())
	}
	want := []string{"b", "c", "a"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("order after update = %v, want %v", names, want)
		}
	}
}

func TestDelete(t *testing.T) {
	s := New()
	s.Insert("a", 1)
	s.Insert("b", 2)
	s.Insert("c", 3)

	e, _ := s.Lookup("b")
	s.Delete(e)

	if _, ok := s.Lookup("b"); ok {
		t.Fatalf("Lookup(b) still succeeds after Delete")
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	// remaining ranks must be a contiguous renumbering
	pos := int64(0)
	for e := s.First(); e != nil; e = s.Next(e) {
		if r := s.Rank(e); r != pos {
			t.Fatalf("entry %s has rank %d, want %d", e.Name(), r, pos)
		}
		pos++
	}
}

func TestDeleteForeignEntryPanics(t *testing.T) {
	s := New()
	s.Insert("a", 1)

	other := New()
	other.Insert("a", 1)
	foreign, _ := other.Lookup("a")

	defer func() {
		if recover() == nil {
			t.Fatalf("Delete of a foreign entry did not panic")
		}
	}()
	s.Delete(foreign)
}

func TestSeekGE(t *testing.T) {
	s := New()
	s.Insert("a", 1)
	s.Insert("b", 2)
	s.Insert("c", 2)
	s.Insert("d", 3)

	cases := []struct {
		score float64
		name  string
		want  string
		none  bool
	}{
		{score: 0, name: "", want: "a"},
		{score: 1, name: "a", want: "a"},
		{score: 1, name: "b", want: "b"}, // past (1, "a")
		{score: 2, name: "", want: "b"},
		{score: 2, name: "b", want: "b"},
		{score: 2, name: "bb", want: "c"},
		{score: 3, name: "d", want: "d"},
		{score: 3, name: "e", none: true},
		{score: 4, name: "", none: true},
	}
	for _, c := range cases {
		e, ok := s.SeekGE(c.score, c.name)
		if c.none {
			if ok {
				t.Errorf("SeekGE(%v, %q) = %s, want none", c.score, c.name, e.Name())
			}
			continue
		}
		if !ok || e.Name() != c.want {
			t.Errorf("SeekGE(%v, %q) = %v, want %s", c.score, c.name, e, c.want)
		}
	}
}

func TestRankAndOffset(t *testing.T) {
	const n = 500
	rng := rand.New(rand.NewSource(42))

	s := New()
	for i := 0; i < n; i++ {
		s.Insert(fmt.Sprintf("m-%04d", i), rng.Float64()*100)
	}

	var ordered []*Entry
	for e := s.First(); e != nil; e = s.Next(e) {
		ordered = append(ordered, e)
	}

	for i, e := range ordered {
		if r := s.Rank(e); r != int64(i) {
			t.Fatalf("Rank(%s) = %d, want %d", e.Name(), r, i)
		}
		for _, d := range []int64{-3, -1, 0, 1, 3, int64(n)} {
			got, ok := s.Offset(e, d)
			target := int64(i) + d
			if target < 0 || target >= int64(n) {
				if ok {
					t.Fatalf("Offset(%s, %d) = %s, want none", e.Name(), d, got.Name())
				}
				continue
			}
			if !ok || got != ordered[target] {
				t.Fatalf("Offset(%s, %d) wrong", e.Name(), d)
			}
		}
	}
}

// TestIndexDuality checks the cross-structure invariant: every entry
// reachable through the tree is reachable by name through the hash index
// and vice versa, with matching (score, name).
func TestIndexDuality(t *testing.T) {
	const n = 2000
	rng := rand.New(rand.NewSource(1))

	s := New()
	expect := map[string]float64{}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("member-%d", rng.Intn(n/2)) // force updates
		score := rng.Float64() * 1000
		inserted := s.Insert(name, score)
		_, existed := expect[name]
		if inserted == existed {
			t.Fatalf("Insert(%s) reported inserted=%v, existed=%v", name, inserted, existed)
		}
		expect[name] = score
	}

	// delete a quarter of the members
	for name := range expect {
		if rng.Intn(4) == 0 {
			e, ok := s.Lookup(name)
			if !ok {
				t.Fatalf("Lookup(%s) failed before delete", name)
			}
			s.Delete(e)
			delete(expect, name)
		}
	}

	if s.Len() != len(expect) {
		t.Fatalf("Len() = %d, want %d", s.Len(), len(expect))
	}

	// tree -> hash
	count := 0
	for e := s.First(); e != nil; e = s.Next(e) {
		count++
		want, ok := expect[e.Name()]
		if !ok {
			t.Fatalf("tree holds %s which should be gone", e.Name())
		}
		if e.Score() != want {
			t.Fatalf("tree entry %s has score %v, want %v", e.Name(), e.Score(), want)
		}
		byName, ok := s.Lookup(e.Name())
		if !ok || byName != e {
			t.Fatalf("hash lookup of %s does not yield the tree entry", e.Name())
		}
	}
	if count != len(expect) {
		t.Fatalf("tree traversal yielded %d entries, want %d", count, len(expect))
	}

	// hash -> tree: ordering must be (score, name) ascending
	prev := s.First()
	for e := s.Next(prev); e != nil; prev, e = e, s.Next(e) {
		if e.Score() < prev.Score() ||
			(e.Score() == prev.Score() && e.Name() <= prev.Name()) {
			t.Fatalf("tree order violated: (%v,%s) after (%v,%s)",
				e.Score(), e.Name(), prev.Score(), prev.Name())
		}
	}
}

func TestScoreTieBreak(t *testing.T) {
	s := New()
	names := []string{"delta", "alpha", "charlie", "bravo"}
	for _, n := range names {
		s.Insert(n, 1.5)
	}

	sort.Strings(names)
	i := 0
	for e := s.First(); e != nil; e = s.Next(e) {
		if e.Name() != names[i] {
			t.Fatalf("tie-break order: got %s at %d, want %s", e.Name(), i, names[i])
		}
		i++
	}
}
