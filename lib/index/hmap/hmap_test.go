package hmap

import (
	"fmt"
	"testing"
)

type kvItem struct {
	key   string
	value int
	node  Node[*kvItem]
}

func newItem(key string, value int) *kvItem {
	it := &kvItem{key: key, value: value}
	it.node.Item = it
	it.node.Hash = HashString(key)
	return it
}

func keyEq(key string) func(*kvItem) bool {
	return func(it *kvItem) bool { return it.key == key }
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestInsertLookup(t *testing.T) {
	m := New[*kvItem](0)

	it := newItem("hello", 1)
	m.Insert(&it.node)

	got, ok := m.Lookup(HashString("hello"), keyEq("hello"))
	if !ok || got != it {
		t.Fatalf("Lookup(hello) = %v, %v; want the inserted item", got, ok)
	}
	if _, ok := m.Lookup(HashString("absent"), keyEq("absent")); ok {
		t.Fatalf("Lookup(absent) reported a match")
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
}

func TestDelete(t *testing.T) {
	m := New[*kvItem](0)

	a := newItem("a", 1)
	b := newItem("b", 2)
	m.Insert(&a.node)
	m.Insert(&b.node)

	got, ok := m.Delete(HashString("a"), keyEq("a"))
	if !ok || got != a {
		t.Fatalf("Delete(a) = %v, %v; want the inserted item", got, ok)
	}
	if _, ok := m.Lookup(HashString("a"), keyEq("a")); ok {
		t.Fatalf("deleted key still resident")
	}
	if _, ok := m.Delete(HashString("a"), keyEq("a")); ok {
		t.Fatalf("second Delete(a) reported a match")
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
}

// TestIncrementalMigration forces several migrations from a tiny initial
// table and checks that every key ever inserted stays reachable at every
// point, regardless of migration progress.
func TestIncrementalMigration(t *testing.T) {
	const n = 10000
	m := New[*kvItem](4)

	items := make([]*kvItem, 0, n)
	sawMigration := false
	for i := 0; i < n; i++ {
		it := newItem(fmt.Sprintf("key-%d", i), i)
		m.Insert(&it.node)
		items = append(items, it)

		if m.Migrating() {
			sawMigration = true
		}
		if m.Len() != i+1 {
			t.Fatalf("after %d inserts: Len() = %d", i+1, m.Len())
		}

		// probe the latest key and a spread of earlier ones on every step
		for _, j := range []int{i, i / 2, i / 3, 0} {
			key := items[j].key
			got, ok := m.Lookup(HashString(key), keyEq(key))
			if !ok || got != items[j] {
				t.Fatalf("after %d inserts: Lookup(%s) = %v, %v", i+1, key, got, ok)
			}
		}
	}
	if !sawMigration {
		t.Fatalf("no migration observed despite initial capacity 4")
	}

	// full sweep at the end
	for _, it := range items {
		got, ok := m.Lookup(HashString(it.key), keyEq(it.key))
		if !ok || got != it {
			t.Fatalf("final sweep: Lookup(%s) failed", it.key)
		}
	}
}

// TestDeleteDuringMigration deletes keys while a migration is known to be
// in progress; both tables must be probed.
func TestDeleteDuringMigration(t *testing.T) {
	m := New[*kvItem](4)

	// insert until a migration is in progress with more entries pending
	// than one helpMigrate call can drain
	var items []*kvItem
	for i := 0; !m.Migrating() || m.Len() < 2*migrationBudget; i++ {
		if i > 1<<20 {
			t.Fatalf("no sustained migration after %d inserts", i)
		}
		it := newItem(fmt.Sprintf("key-%d", i), i)
		m.Insert(&it.node)
		items = append(items, it)
	}
	n := len(items)

	for i, it := range items {
		got, ok := m.Delete(HashString(it.key), keyEq(it.key))
		if !ok || got != it {
			t.Fatalf("Delete(%s) = %v, %v", it.key, got, ok)
		}
		if m.Len() != n-i-1 {
			t.Fatalf("Len() = %d after %d deletes", m.Len(), i+1)
		}
	}
}

func TestRange(t *testing.T) {
	const n = 100
	m := New[*kvItem](4)
	for i := 0; i < n; i++ {
		it := newItem(fmt.Sprintf("key-%d", i), i)
		m.Insert(&it.node)
	}

	seen := map[string]bool{}
	m.Range(func(it *kvItem) bool {
		if seen[it.key] {
			t.Fatalf("Range visited %s twice", it.key)
		}
		seen[it.key] = true
		return true
	})
	if len(seen) != n {
		t.Fatalf("Range visited %d items, want %d", len(seen), n)
	}

	// early stop
	count := 0
	m.Range(func(*kvItem) bool {
		count++
		return count < 10
	})
	if count != 10 {
		t.Fatalf("Range did not stop early: %d visits", count)
	}
}

func TestNonPowerOfTwoPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("New(3) did not panic")
		}
	}()
	New[*kvItem](3)
}

func TestZeroValueMap(t *testing.T) {
	var m Map[*kvItem]
	it := newItem("x", 1)
	m.Insert(&it.node)
	if got, ok := m.Lookup(HashString("x"), keyEq("x")); !ok || got != it {
		t.Fatalf("zero-value map lost its entry")
	}
}

func TestHashKnownValues(t *testing.T) {
	// FNV-1a reference values
	cases := map[string]uint64{
		"":    14695981039346656037,
		"a":   12638187200555641996,
		"foo": 15902901984413996407,
	}
	for in, want := range cases {
		if got := HashString(in); got != want {
			t.Errorf("HashString(%q) = %d, want %d", in, got, want)
		}
		if got := HashBytes([]byte(in)); got != want {
			t.Errorf("HashBytes(%q) = %d, want %d", in, got, want)
		}
	}
}
