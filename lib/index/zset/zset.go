// Package zset implements a sorted set: a collection of named entries
// ordered by a floating-point score.
//
// Each entry is indexed twice over the same record. An order-statistic
// tree (lib/index/avl) keyed by (score, name) provides ordered range and
// rank queries in O(log n); a hash map (lib/index/hmap) keyed by name
// provides O(1) average lookup. Names break score ties bytewise, so the
// tree order is a strict total order.
//
// Invariant: an entry is resident in both indexes or in neither. Insert,
// Delete and score updates maintain this under single-call atomicity.
//
// Thread-safety: a Set must not be mutated concurrently; callers provide
// external serialization, as the store layer does.
package zset

import (
	"github.com/ahaustein/cedar/lib/index/avl"
	"github.com/ahaustein/cedar/lib/index/hmap"
)

// --------------------------------------------------------------------------
// Entry
// --------------------------------------------------------------------------

// Entry is one (score, name) member of a set. The set owns its entries;
// an Entry handle obtained from Lookup or iteration stays valid until the
// entry is deleted from the set.
type Entry struct {
	score float64
	name  string

	tnode avl.Node[*Entry]
	hnode hmap.Node[*Entry]
}

// Score returns the entry's current score.
func (e *Entry) Score() float64 { return e.score }

// Name returns the entry's name.
func (e *Entry) Name() string { return e.name }

// entryLess orders entries by (score, name), names compared bytewise.
func entryLess(a, b *Entry) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.name < b.name
}

// entryBefore reports whether e orders strictly before the (score, name)
// query key.
func entryBefore(e *Entry, score float64, name string) bool {
	if e.score != score {
		return e.score < score
	}
	return e.name < name
}

// --------------------------------------------------------------------------
// Set
// --------------------------------------------------------------------------

// Set is a sorted set. Use New to create one.
type Set struct {
	tree   *avl.Tree[*Entry]
	byName hmap.Map[*Entry]
}

// New creates an empty sorted set.
func New() *Set {
	return &Set{tree: avl.New(entryLess)}
}

// Len returns the number of entries in the set.
func (s *Set) Len() int {
	return s.tree.Len()
}

// Lookup returns the entry with the given name, or (nil, false) if the
// name is not a member.
func (s *Set) Lookup(name string) (*Entry, bool) {
	return s.byName.Lookup(hmap.HashString(name), func(e *Entry) bool {
		return e.name == name
	})
}

// Insert adds name with the given score, or updates the score of an
// existing member. It reports true if a new entry was created and false
// if an existing one was updated.
//
// An update relocates the entry in the tree (detach, then reinsert under
// the new score) and leaves the hash index untouched; a name is never
// present twice.
func (s *Set) Insert(name string, score float64) bool {
	if e, ok := s.Lookup(name); ok {
		s.tree.Delete(&e.tnode)
		e.score = score
		s.tree.Insert(&e.tnode)
		return false
	}

	e := &Entry{score: score, name: name}
	e.tnode.Item = e
	e.hnode.Item = e
	e.hnode.Hash = hmap.HashString(name)

	s.byName.Insert(&e.hnode)
	s.tree.Insert(&e.tnode)
	return true
}

// Delete removes e from both indexes. The entry must have been obtained
// from this set and still be resident; deleting a foreign or stale handle
// is a caller bug and panics.
func (s *Set) Delete(e *Entry) {
	detached, ok := s.byName.Delete(e.hnode.Hash, func(it *Entry) bool {
		return it == e
	})
	if !ok || detached != e {
		panic("zset: entry not resident in this set")
	}
	s.tree.Delete(&e.tnode)
}

// SeekGE returns the least entry whose (score, name) is not less than the
// query, or (nil, false) if every entry is less.
func (s *Set) SeekGE(score float64, name string) (*Entry, bool) {
	n := s.tree.Seek(func(e *Entry) bool {
		return entryBefore(e, score, name)
	})
	if n == nil {
		return nil, false
	}
	return n.Item, true
}

// Rank returns the 0-based ascending rank of e. The entry must be
// resident in the set.
func (s *Set) Rank(e *Entry) int64 {
	return e.tnode.Rank()
}

// Offset returns the entry whose rank is Rank(e)+k, or (nil, false) if
// that rank is out of range.
func (s *Set) Offset(e *Entry, k int64) (*Entry, bool) {
	n := e.tnode.Offset(k)
	if n == nil {
		return nil, false
	}
	return n.Item, true
}

// First returns the entry with the lowest (score, name), or nil for an
// empty set.
func (s *Set) First() *Entry {
	n := s.tree.First()
	if n == nil {
		return nil
	}
	return n.Item
}

// Next returns the in-order successor of e, or nil at the end.
func (s *Set) Next(e *Entry) *Entry {
	n := e.tnode.Next()
	if n == nil {
		return nil
	}
	return n.Item
}
