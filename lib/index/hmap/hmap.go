// Package hmap implements an intrusive chained hash table with incremental
// rehashing.
//
// Resizing a large table in one pass would stall the caller for the whole
// rehash. Instead the map keeps two tables during a resize: a newer table
// that receives all writes and an older table that is drained into it, a
// bounded number of entries at a time, on every insert, lookup and delete.
// Worst-case latency per operation is therefore bounded by the fixed
// migration budget, at the cost of probing both tables while a migration
// is in progress.
//
// Like the avl package, the table is intrusive: callers embed a Node in
// their record, precompute its 64-bit hash code and supply an equality
// predicate on lookups. The predicate is only invoked on nodes whose hash
// codes already match.
//
// Concurrency Considerations:
//   - Note: This implementation is not thread-safe by default
//   - For concurrent use, external synchronization must be applied
package hmap

const (
	// defaultSlots is the bucket count of a freshly created map.
	defaultSlots = 4

	// maxLoadFactor is the entries-per-bucket threshold of the newer table
	// beyond which a migration starts.
	maxLoadFactor = 8

	// migrationBudget is the number of entries moved from the older table
	// per operation while a migration is in progress.
	migrationBudget = 128
)

// --------------------------------------------------------------------------
// Node
// --------------------------------------------------------------------------

// Node is an intrusive hash node. Embed it in the record to be indexed,
// set Item to point back at the record and Hash to the precomputed 64-bit
// hash code of the record's key before inserting.
type Node[T any] struct {
	// Item is the payload this node indexes. Never touched by the map.
	Item T

	// Hash is the precomputed hash code of the record's key. It must not
	// change while the node is resident in a map.
	Hash uint64

	next *Node[T]
}

// --------------------------------------------------------------------------
// table: a single power-of-two chained hash table
// --------------------------------------------------------------------------

type table[T any] struct {
	slots []*Node[T]
	mask  uint64 // len(slots) - 1
	size  int
}

func newTable[T any](n int) table[T] {
	if n <= 0 || n&(n-1) != 0 {
		panic("hmap: table size must be a power of two")
	}
	return table[T]{
		slots: make([]*Node[T], n),
		mask:  uint64(n - 1),
	}
}

func (t *table[T]) insert(n *Node[T]) {
	idx := n.Hash & t.mask
	n.next = t.slots[idx]
	t.slots[idx] = n
	t.size++
}

// lookup returns the address of the link pointing at the matching node,
// which allows O(1) detachment, or nil if the key is absent.
func (t *table[T]) lookup(hash uint64, eq func(item T) bool) **Node[T] {
	if t.slots == nil {
		return nil
	}
	from := &t.slots[hash&t.mask]
	for cur := *from; cur != nil; cur = cur.next {
		if cur.Hash == hash && eq(cur.Item) {
			return from
		}
		from = &cur.next
	}
	return nil
}

func (t *table[T]) detach(from **Node[T]) *Node[T] {
	node := *from
	*from = node.next
	node.next = nil
	t.size--
	return node
}

// --------------------------------------------------------------------------
// Map: two-table incremental rehashing
// --------------------------------------------------------------------------

// Map is a hash map that resizes in bounded increments. The zero value is
// ready to use.
//
// While a migration is in progress every logical key resides in exactly
// one of the two tables; once the older table is drained it is discarded.
type Map[T any] struct {
	newer      table[T] // receives all writes
	older      table[T] // drained during migration, nil slots otherwise
	migratePos uint64   // next older bucket to drain
}

// New creates a map with the given initial bucket count, which must be a
// power of two. New(0) uses the default.
func New[T any](slots int) *Map[T] {
	m := &Map[T]{}
	if slots == 0 {
		slots = defaultSlots
	}
	m.newer = newTable[T](slots)
	return m
}

// Len returns the number of resident entries across both tables.
func (m *Map[T]) Len() int {
	return m.newer.size + m.older.size
}

// Migrating reports whether an incremental rehash is in progress.
func (m *Map[T]) Migrating() bool {
	return m.older.slots != nil
}

// helpMigrate moves up to migrationBudget entries from the older table
// into the newer one, draining buckets in index order. Buckets are never
// revisited: the cursor only advances. When the older table is exhausted
// it is discarded.
func (m *Map[T]) helpMigrate() {
	if m.older.slots == nil {
		return
	}

	moved := 0
	for moved < migrationBudget && m.older.size > 0 {
		node := m.older.slots[m.migratePos]
		if node == nil {
			m.migratePos++
			continue
		}
		m.older.slots[m.migratePos] = node.next
		m.older.size--
		node.next = nil
		m.newer.insert(node)
		moved++
	}

	if m.older.size == 0 {
		m.older = table[T]{}
		m.migratePos = 0
	}
}

// startMigration makes the current newer table the migration source and
// installs a fresh table of double the bucket count as the write target.
func (m *Map[T]) startMigration() {
	m.older = m.newer
	m.newer = newTable[T](len(m.older.slots) * 2)
	m.migratePos = 0
}

// Insert adds n to the map. The caller must have set n.Item and n.Hash.
// Keys are not deduplicated here; callers that need upsert semantics must
// Lookup first, as the sorted-set layer does.
func (m *Map[T]) Insert(n *Node[T]) {
	if m.newer.slots == nil {
		m.newer = newTable[T](defaultSlots)
	}
	m.helpMigrate()

	m.newer.insert(n)
	if !m.Migrating() && m.newer.size >= (int(m.newer.mask)+1)*maxLoadFactor {
		m.startMigration()
	}
}

// Lookup probes the newer table first, then the older one if a migration
// is in progress. eq is invoked only on hash-code matches within the
// addressed bucket. The second return value reports whether a match was
// found.
func (m *Map[T]) Lookup(hash uint64, eq func(item T) bool) (T, bool) {
	m.helpMigrate()

	if from := m.newer.lookup(hash, eq); from != nil {
		return (*from).Item, true
	}
	if from := m.older.lookup(hash, eq); from != nil {
		return (*from).Item, true
	}
	var zero T
	return zero, false
}

// Delete detaches the matching node from whichever table holds it and
// returns its item. The second return value reports whether a match was
// found.
func (m *Map[T]) Delete(hash uint64, eq func(item T) bool) (T, bool) {
	m.helpMigrate()

	if from := m.newer.lookup(hash, eq); from != nil {
		return m.newer.detach(from).Item, true
	}
	if from := m.older.lookup(hash, eq); from != nil {
		return m.older.detach(from).Item, true
	}
	var zero T
	return zero, false
}

// Range calls fn for every resident item until fn returns false. The map
// must not be mutated during the walk; callers that need a mutation-safe
// sequence must snapshot first.
func (m *Map[T]) Range(fn func(item T) bool) {
	for _, t := range []*table[T]{&m.newer, &m.older} {
		for _, head := range t.slots {
			for cur := head; cur != nil; cur = cur.next {
				if !fn(cur.Item) {
					return
				}
			}
		}
	}
}
