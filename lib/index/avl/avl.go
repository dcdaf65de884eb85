// Package avl implements an intrusive, self-balancing binary search tree
// with subtree counts for order-statistic queries.
//
// The tree is an AVL tree: for every node the heights of its two subtrees
// differ by at most one. In addition to the height, every node maintains
// the size of the subtree rooted at it, which makes rank and offset
// queries possible in O(log n) without traversing unrelated subtrees.
//
// The tree is intrusive: callers embed a Node in their own record and the
// tree links those nodes directly, so inserting or removing an entry never
// allocates. The ordering is supplied at construction time as a
// less-than function over the embedded items.
//
// Key properties:
//
//  1. Time Complexity:
//     - O(log n) for Insert, Delete and Seek
//     - O(log n) for Rank and Offset (order statistics)
//     - O(1) amortized for in-order iteration via First/Next
//
//  2. Concurrency Considerations:
//     - Note: This implementation is not thread-safe by default
//     - For concurrent use, external synchronization must be applied
package avl

// --------------------------------------------------------------------------
// Node
// --------------------------------------------------------------------------

// Node is an intrusive tree node. Embed it in the record to be indexed and
// set Item to point back at the record. All links are managed by Tree.
type Node[T any] struct {
	// Item is the payload this node indexes. It is set by the caller and
	// never touched by the tree.
	Item T

	parent *Node[T]
	left   *Node[T]
	right  *Node[T]
	height uint32 // 1 for a leaf, 0 for a nil node
	count  uint32 // nodes in the subtree rooted here, including this one
}

// height of a possibly-nil node
func nodeHeight[T any](n *Node[T]) uint32 {
	if n == nil {
		return 0
	}
	return n.height
}

// subtree size of a possibly-nil node
func nodeCount[T any](n *Node[T]) uint32 {
	if n == nil {
		return 0
	}
	return n.count
}

// update recomputes height and count from the children.
func (n *Node[T]) update() {
	hl, hr := nodeHeight(n.left), nodeHeight(n.right)
	if hl > hr {
		n.height = hl + 1
	} else {
		n.height = hr + 1
	}
	n.count = 1 + nodeCount(n.left) + nodeCount(n.right)
}

// reset prepares a node for (re-)insertion as a leaf.
func (n *Node[T]) reset() {
	n.parent, n.left, n.right = nil, nil, nil
	n.height = 1
	n.count = 1
}

// Left returns the left child (nil if absent).
func (n *Node[T]) Left() *Node[T] { return n.left }

// Right returns the right child (nil if absent).
func (n *Node[T]) Right() *Node[T] { return n.right }

// Parent returns the parent node (nil for the root).
func (n *Node[T]) Parent() *Node[T] { return n.parent }

// Height returns the AVL height of the subtree rooted at n (1 for a leaf).
func (n *Node[T]) Height() uint32 {
	if n == nil {
		return 0
	}
	return n.height
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node[T]) Count() uint32 {
	if n == nil {
		return 0
	}
	return n.count
}

// --------------------------------------------------------------------------
// Tree
// --------------------------------------------------------------------------

// Tree is an order-statistic AVL tree over intrusive nodes.
//
// Thread-safety: a Tree must not be mutated concurrently. Callers that
// share a tree between goroutines must serialize access themselves.
type Tree[T any] struct {
	root *Node[T]
	less func(a, b T) bool
}

// New creates an empty tree ordered by the given less-than function.
// The function must implement a strict total order over the items.
func New[T any](less func(a, b T) bool) *Tree[T] {
	if less == nil {
		panic("avl: nil less function")
	}
	return &Tree[T]{less: less}
}

// Len returns the number of nodes in the tree.
func (t *Tree[T]) Len() int {
	return int(nodeCount(t.root))
}

// Root returns the current root node (nil for an empty tree).
func (t *Tree[T]) Root() *Node[T] { return t.root }

// --------------------------------------------------------------------------
// Rotations
// --------------------------------------------------------------------------

// rotateLeft rotates the subtree rooted at x to the left and returns the
// new subtree root. Only the two nodes whose subtrees changed are updated,
// which keeps a full rebalance pass O(log n).
func rotateLeft[T any](x *Node[T]) *Node[T] {
	p := x.parent
	y := x.right
	if y == nil {
		return x
	}
	b := y.left

	y.left = x
	x.parent = y
	x.right = b
	if b != nil {
		b.parent = x
	}
	y.parent = p

	x.update()
	y.update()
	return y
}

// rotateRight is the mirror image of rotateLeft.
func rotateRight[T any](y *Node[T]) *Node[T] {
	p := y.parent
	x := y.left
	if x == nil {
		return y
	}
	b := x.right

	x.right = y
	y.parent = x
	y.left = b
	if b != nil {
		b.parent = y
	}
	x.parent = p

	y.update()
	x.update()
	return x
}

// fixLeft restores balance when the left subtree is two levels taller.
// A left-right shape is first rotated into left-left.
func fixLeft[T any](n *Node[T]) *Node[T] {
	if nodeHeight(n.left.left) < nodeHeight(n.left.right) {
		l := rotateLeft(n.left)
		n.left = l
		l.parent = n
	}
	return rotateRight(n)
}

// fixRight restores balance when the right subtree is two levels taller.
func fixRight[T any](n *Node[T]) *Node[T] {
	if nodeHeight(n.right.right) < nodeHeight(n.right.left) {
		r := rotateRight(n.right)
		n.right = r
		r.parent = n
	}
	return rotateLeft(n)
}

// fix walks from n to the root, recomputing heights and counts and
// rotating wherever the height difference between children reaches two.
// It returns the (possibly new) root of the whole tree.
func fix[T any](n *Node[T]) *Node[T] {
	for {
		parent := n.parent
		n.update()

		fixed := n
		hl, hr := nodeHeight(n.left), nodeHeight(n.right)
		if hl == hr+2 {
			fixed = fixLeft(n)
		} else if hr == hl+2 {
			fixed = fixRight(n)
		}

		if parent == nil {
			return fixed
		}
		if parent.left == n {
			parent.left = fixed
		} else {
			parent.right = fixed
		}
		n = parent
	}
}

// --------------------------------------------------------------------------
// Insert / Delete
// --------------------------------------------------------------------------

// Insert attaches n as a leaf at its ordered position and rebalances the
// path back to the root. The node is reinitialized first, so a node
// detached by Delete may be reinserted.
//
// Equal items are allowed; a new equal node is placed after the existing
// ones in iteration order.
func (t *Tree[T]) Insert(n *Node[T]) {
	n.reset()

	var parent *Node[T]
	cur := t.root
	goLeft := false
	for cur != nil {
		parent = cur
		if t.less(n.Item, cur.Item) {
			cur = cur.left
			goLeft = true
		} else {
			cur = cur.right
			goLeft = false
		}
	}

	n.parent = parent
	if parent == nil {
		t.root = fix(n)
		return
	}
	if goLeft {
		parent.left = n
	} else {
		parent.right = n
	}
	t.root = fix(n)
}

// deleteSimple splices out a node with at most one child and rebalances
// from its former parent upward. It returns the new tree root.
func deleteSimple[T any](node *Node[T]) *Node[T] {
	child := node.left
	if child == nil {
		child = node.right
	}
	parent := node.parent

	if child != nil {
		child.parent = parent
	}
	if parent == nil {
		if child != nil {
			child.update()
		}
		return child
	}

	if parent.left == node {
		parent.left = child
	} else {
		parent.right = child
	}
	return fix(parent)
}

// Delete removes n from the tree and rebalances. The node must currently
// be resident in this tree; deleting a foreign or already-detached node
// violates the tree invariants.
//
// A node with two children is replaced by its in-order successor: the
// successor is first detached via the one-child case, then relocated into
// the structural position of n.
func (t *Tree[T]) Delete(n *Node[T]) {
	if n.left == nil || n.right == nil {
		t.root = deleteSimple(n)
		return
	}

	// in-order successor: leftmost node of the right subtree
	s := n.right
	for s.left != nil {
		s = s.left
	}
	deleteSimple(s)

	// relocate the successor into n's structural position
	s.left = n.left
	if s.left != nil {
		s.left.parent = s
	}
	s.right = n.right
	if s.right != nil {
		s.right.parent = s
	}
	s.parent = n.parent

	if s.parent != nil {
		if s.parent.left == n {
			s.parent.left = s
		} else {
			s.parent.right = s
		}
	}
	s.update()
	t.root = fix(s)
}

// --------------------------------------------------------------------------
// Seek / Iteration
// --------------------------------------------------------------------------

// Seek returns the leftmost node whose item is not less than the query.
// The caller supplies less, which reports whether an item orders strictly
// before the query. Returns nil if every item is less.
func (t *Tree[T]) Seek(less func(item T) bool) *Node[T] {
	var found *Node[T]
	cur := t.root
	for cur != nil {
		if less(cur.Item) {
			cur = cur.right
		} else {
			found = cur
			cur = cur.left
		}
	}
	return found
}

// First returns the smallest node, or nil for an empty tree.
func (t *Tree[T]) First() *Node[T] {
	n := t.root
	if n == nil {
		return nil
	}
	for n.left != nil {
		n = n.left
	}
	return n
}

// Next returns the in-order successor of n, or nil at the end. Together
// with First it yields a restartable ascending walk over the whole tree.
func (n *Node[T]) Next() *Node[T] {
	if n == nil {
		return nil
	}
	if n.right != nil {
		s := n.right
		for s.left != nil {
			s = s.left
		}
		return s
	}
	p := n.parent
	c := n
	for p != nil && p.right == c {
		c = p
		p = p.parent
	}
	return p
}

// --------------------------------------------------------------------------
// Order statistics
// --------------------------------------------------------------------------

// Rank returns the 0-based position of n in ascending order. It climbs
// parent links, adding the left-subtree size plus one every time the climb
// leaves a right child, so no unrelated subtree is visited.
func (n *Node[T]) Rank() int64 {
	r := int64(nodeCount(n.left))
	for n.parent != nil {
		p := n.parent
		if p.right == n {
			r += int64(nodeCount(p.left)) + 1
		}
		n = p
	}
	return r
}

// Offset returns the node whose rank is Rank(n)+k, or nil if that rank is
// out of range. It keeps a running rank delta and moves into a child when
// the target falls inside that child's subtree, climbing otherwise.
func (n *Node[T]) Offset(k int64) *Node[T] {
	if n == nil {
		return nil
	}
	pos := int64(0) // rank of the current node relative to the start node

	for pos != k && n != nil {
		if pos < k && pos+int64(nodeCount(n.right)) >= k {
			// target is inside the right subtree
			n = n.right
			pos += int64(nodeCount(n.left)) + 1
		} else if pos > k && pos-int64(nodeCount(n.left)) <= k {
			// target is inside the left subtree
			n = n.left
			pos -= int64(nodeCount(n.right)) + 1
		} else {
			parent := n.parent
			if parent == nil {
				return nil
			}
			if parent.right == n {
				pos -= int64(nodeCount(n.left)) + 1
			} else {
				pos += int64(nodeCount(n.right)) + 1
			}
			n = parent
		}
	}
	if pos != k {
		return nil
	}
	return n
}
