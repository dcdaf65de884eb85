package avl

import (
	"math/rand"
	"sort"
	"testing"
)

type intItem struct {
	key  int
	node Node[*intItem]
}

func newIntTree() *Tree[*intItem] {
	return New[*intItem](func(a, b *intItem) bool {
		return a.key < b.key
	})
}

func insertKey(t *Tree[*intItem], key int) *intItem {
	it := &intItem{key: key}
	it.node.Item = it
	t.Insert(&it.node)
	return it
}

// --------------------------------------------------------------------------
// Invariant checkers
// --------------------------------------------------------------------------

// verifyTree checks the structural invariants of the whole tree: parent
// links, AVL balance, height and subtree count correctness, and strictly
// ascending in-order keys.
func verifyTree(t *testing.T, tree *Tree[*intItem]) {
	t.Helper()

	// in-order keys must be strictly ascending
	prev := -1 << 62
	seen := 0
	for n := tree.First(); n != nil; n = n.Next() {
		k := n.Item.key
		if k <= prev {
			t.Fatalf("in-order traversal not ascending: %d after %d", k, prev)
		}
		prev = k
		seen++
	}
	if seen != tree.Len() {
		t.Fatalf("traversal saw %d nodes, Len() reports %d", seen, tree.Len())
	}

	// local invariants on every node
	stack := []*Node[*intItem]{}
	if tree.Root() != nil {
		if tree.Root().Parent() != nil {
			t.Fatalf("root has a parent")
		}
		stack = append(stack, tree.Root())
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		hl, hr := n.Left().Height(), n.Right().Height()
		if hl > hr+1 || hr > hl+1 {
			t.Fatalf("node %d violates balance: hl=%d hr=%d", n.Item.key, hl, hr)
		}
		max := hl
		if hr > max {
			max = hr
		}
		if n.Height() != max+1 {
			t.Fatalf("node %d has height %d, want %d", n.Item.key, n.Height(), max+1)
		}
		if n.Count() != 1+n.Left().Count()+n.Right().Count() {
			t.Fatalf("node %d has count %d, children sum to %d",
				n.Item.key, n.Count(), 1+n.Left().Count()+n.Right().Count())
		}
		if n.Left() != nil {
			if n.Left().Parent() != n {
				t.Fatalf("left child of %d has wrong parent", n.Item.key)
			}
			stack = append(stack, n.Left())
		}
		if n.Right() != nil {
			if n.Right().Parent() != n {
				t.Fatalf("right child of %d has wrong parent", n.Item.key)
			}
			stack = append(stack, n.Right())
		}
	}
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestInsertDeleteInvariants(t *testing.T) {
	const n = 5000
	rng := rand.New(rand.NewSource(12345))

	keys := make([]int, n)
	for i := range keys {
		keys[i] = i + 1
	}
	rng.Shuffle(n, func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	tree := newIntTree()
	items := make(map[int]*intItem, n)
	for _, k := range keys {
		items[k] = insertKey(tree, k)
	}
	if tree.Len() != n {
		t.Fatalf("Len() = %d, want %d", tree.Len(), n)
	}
	verifyTree(t, tree)

	// delete a random half
	rng.Shuffle(n, func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	for _, k := range keys[:n/2] {
		tree.Delete(&items[k].node)
		delete(items, k)
	}
	verifyTree(t, tree)

	// the surviving in-order sequence must equal the sorted surviving set
	want := make([]int, 0, len(items))
	for k := range items {
		want = append(want, k)
	}
	sort.Ints(want)

	i := 0
	for node := tree.First(); node != nil; node = node.Next() {
		if node.Item.key != want[i] {
			t.Fatalf("position %d: got key %d, want %d", i, node.Item.key, want[i])
		}
		i++
	}
	if i != len(want) {
		t.Fatalf("traversal yielded %d keys, want %d", i, len(want))
	}
}

func TestRank(t *testing.T) {
	const n = 1000
	rng := rand.New(rand.NewSource(99))

	tree := newIntTree()
	used := map[int]bool{}
	for tree.Len() < n {
		k := rng.Intn(1 << 20)
		if used[k] {
			continue
		}
		used[k] = true
		insertKey(tree, k)
	}

	pos := int64(0)
	for node := tree.First(); node != nil; node = node.Next() {
		if r := node.Rank(); r != pos {
			t.Fatalf("key %d: Rank() = %d, want %d", node.Item.key, r, pos)
		}
		pos++
	}
}

func TestOffset(t *testing.T) {
	const n = 1000
	rng := rand.New(rand.NewSource(7))

	tree := newIntTree()
	used := map[int]bool{}
	for tree.Len() < n {
		k := rng.Intn(1 << 20)
		if used[k] {
			continue
		}
		used[k] = true
		insertKey(tree, k)
	}

	// precompute the sorted sequence
	ordered := make([]*Node[*intItem], 0, n)
	for node := tree.First(); node != nil; node = node.Next() {
		ordered = append(ordered, node)
	}

	for i, node := range ordered {
		for d := int64(-10); d <= 10; d++ {
			got := node.Offset(d)
			target := int64(i) + d
			if target < 0 || target >= int64(n) {
				if got != nil {
					t.Fatalf("Offset(%d) from position %d: got key %d, want nil",
						d, i, got.Item.key)
				}
				continue
			}
			if got == nil {
				t.Fatalf("Offset(%d) from position %d: got nil, want key %d",
					d, i, ordered[target].Item.key)
			}
			if got != ordered[target] {
				t.Fatalf("Offset(%d) from position %d: got key %d, want key %d",
					d, i, got.Item.key, ordered[target].Item.key)
			}
		}
	}
}

func TestSeek(t *testing.T) {
	tree := newIntTree()
	for _, k := range []int{10, 20, 30, 40, 50} {
		insertKey(tree, k)
	}

	cases := []struct {
		query int
		want  int  // expected key
		none  bool // expect nil
	}{
		{query: 5, want: 10},
		{query: 10, want: 10},
		{query: 11, want: 20},
		{query: 45, want: 50},
		{query: 50, want: 50},
		{query: 51, none: true},
	}
	for _, c := range cases {
		got := tree.Seek(func(it *intItem) bool { return it.key < c.query })
		if c.none {
			if got != nil {
				t.Errorf("Seek(%d): got %d, want nil", c.query, got.Item.key)
			}
			continue
		}
		if got == nil || got.Item.key != c.want {
			t.Errorf("Seek(%d): got %v, want %d", c.query, got, c.want)
		}
	}
}

func TestReinsertDetachedNode(t *testing.T) {
	tree := newIntTree()
	items := make([]*intItem, 0, 10)
	for k := 1; k <= 10; k++ {
		items = append(items, insertKey(tree, k))
	}

	// detach key 5 and reinsert it with a new key, as a score update would
	it := items[4]
	tree.Delete(&it.node)
	it.key = 100
	tree.Insert(&it.node)

	verifyTree(t, tree)
	if tree.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", tree.Len())
	}
	last := tree.Seek(func(x *intItem) bool { return x.key < 100 })
	if last == nil || last.Item != it {
		t.Fatalf("reinserted node not found at its new position")
	}
}

func TestEmptyTree(t *testing.T) {
	tree := newIntTree()
	if tree.Len() != 0 {
		t.Fatalf("empty tree Len() = %d", tree.Len())
	}
	if tree.First() != nil {
		t.Fatalf("empty tree First() != nil")
	}
	if got := tree.Seek(func(*intItem) bool { return true }); got != nil {
		t.Fatalf("empty tree Seek() != nil")
	}
}
