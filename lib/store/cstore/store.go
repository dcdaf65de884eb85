package cstore

import (
	"sync"

	"github.com/ahaustein/cedar/lib/index/hmap"
	"github.com/ahaustein/cedar/lib/index/zset"
	"github.com/ahaustein/cedar/lib/store"
)

// --------------------------------------------------------------------------
// Keyspace objects
// --------------------------------------------------------------------------

// objKind is the type tag of a keyspace object.
type objKind uint8

const (
	objString objKind = iota // plain byte-string value
	objZSet                  // sorted set
)

func (k objKind) String() string {
	switch k {
	case objString:
		return "string"
	case objZSet:
		return "zset"
	default:
		return "unknown"
	}
}

// object is one entry of the keyspace. Exactly one of value/set is live,
// selected by kind.
type object struct {
	key   string
	kind  objKind
	value []byte
	set   *zset.Set

	hnode hmap.Node[*object]
}

// --------------------------------------------------------------------------
// Store implementation
// --------------------------------------------------------------------------

// storeImpl implements store.IStore on top of the lib/index structures:
// a single incremental hash map as the keyspace, with sorted-set objects
// composing the order-statistic tree and a second hash map per set.
type storeImpl struct {
	mu   sync.Mutex
	keys hmap.Map[*object]
}

// NewCedarStore creates a new single-node store instance.
//
// Thread-safety: the returned store serializes all operations through an
// internal mutex; the index structures underneath are single-threaded by
// design and never locked individually.
func NewCedarStore() store.IStore {
	return &storeImpl{}
}

// lookupObject returns the keyspace object for key, if any.
// The caller must hold s.mu.
func (s *storeImpl) lookupObject(key string) (*object, bool) {
	return s.keys.Lookup(hmap.HashString(key), func(o *object) bool {
		return o.key == key
	})
}

// typeMismatch builds the error returned when a key holds an object of a
// different kind than the operation expects.
func typeMismatch(key string, have, want objKind) *store.Error {
	return store.NewError(store.RetCInvalidOperation,
		"key '"+key+"' holds a "+have.String()+" value, not a "+want.String())
}

// zsetForKey returns the sorted set stored at key. With create set, an
// absent key is initialized to an empty set. The caller must hold s.mu.
func (s *storeImpl) zsetForKey(key string, create bool) (*zset.Set, error) {
	if obj, ok := s.lookupObject(key); ok {
		if obj.kind != objZSet {
			return nil, typeMismatch(key, obj.kind, objZSet)
		}
		return obj.set, nil
	}
	if !create {
		return nil, nil
	}
	obj := &object{key: key, kind: objZSet, set: zset.New()}
	obj.hnode.Item = obj
	obj.hnode.Hash = hmap.HashString(key)
	s.keys.Insert(&obj.hnode)
	return obj.set, nil
}

// removeKey detaches the keyspace object for key. The caller must hold
// s.mu and know the key is resident.
func (s *storeImpl) removeKey(key string) bool {
	_, ok := s.keys.Delete(hmap.HashString(key), func(o *object) bool {
		return o.key == key
	})
	return ok
}

// --------------------------------------------------------------------------
// Interface Methods - plain keys (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy the value so later caller mutations cannot corrupt the store
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	if obj, ok := s.lookupObject(key); ok {
		if obj.kind != objString {
			return typeMismatch(key, obj.kind, objString)
		}
		obj.value = valueCopy
		return nil
	}

	obj := &object{key: key, kind: objString, value: valueCopy}
	obj.hnode.Item = obj
	obj.hnode.Hash = hmap.HashString(key)
	s.keys.Insert(&obj.hnode)
	return nil
}

func (s *storeImpl) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.lookupObject(key)
	if !ok {
		return nil, false, nil
	}
	if obj.kind != objString {
		return nil, false, typeMismatch(key, obj.kind, objString)
	}

	valueCopy := make([]byte, len(obj.value))
	copy(valueCopy, obj.value)
	return valueCopy, true, nil
}

func (s *storeImpl) Delete(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeKey(key), nil
}

func (s *storeImpl) Has(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.lookupObject(key)
	return ok, nil
}

func (s *storeImpl) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, s.keys.Len())
	s.keys.Range(func(o *object) bool {
		keys = append(keys, o.key)
		return true
	})
	return keys, nil
}

// --------------------------------------------------------------------------
// Interface Methods - sorted sets (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) ZAdd(key, member string, score float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.zsetForKey(key, true)
	if err != nil {
		return false, err
	}
	return set.Insert(member, score), nil
}

func (s *storeImpl) ZScore(key, member string) (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.zsetForKey(key, false)
	if err != nil || set == nil {
		return 0, false, err
	}
	e, ok := set.Lookup(member)
	if !ok {
		return 0, false, nil
	}
	return e.Score(), true, nil
}

func (s *storeImpl) ZRem(key, member string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.zsetForKey(key, false)
	if err != nil || set == nil {
		return false, err
	}
	e, ok := set.Lookup(member)
	if !ok {
		return false, nil
	}
	set.Delete(e)

	// an empty set no longer occupies its key
	if set.Len() == 0 {
		s.removeKey(key)
	}
	return true, nil
}

func (s *storeImpl) ZRank(key, member string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.zsetForKey(key, false)
	if err != nil || set == nil {
		return 0, false, err
	}
	e, ok := set.Lookup(member)
	if !ok {
		return 0, false, nil
	}
	return set.Rank(e), true, nil
}

func (s *storeImpl) ZCard(key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.zsetForKey(key, false)
	if err != nil || set == nil {
		return 0, err
	}
	return int64(set.Len()), nil
}

func (s *storeImpl) ZQuery(key string, score float64, member string, offset, limit int64) ([]store.ScoredMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := []store.ScoredMember{}
	if limit <= 0 {
		return entries, nil
	}

	set, err := s.zsetForKey(key, false)
	if err != nil || set == nil {
		return entries, err
	}

	e, ok := set.SeekGE(score, member)
	if !ok {
		return entries, nil
	}
	e, ok = set.Offset(e, offset)
	if !ok {
		return entries, nil
	}

	for e != nil && int64(len(entries)) < limit {
		entries = append(entries, store.ScoredMember{
			Member: e.Name(),
			Score:  e.Score(),
		})
		e = set.Next(e)
	}
	return entries, nil
}

// --------------------------------------------------------------------------
// Interface Methods - metadata (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) GetStoreInfo() (store.StoreInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return store.StoreInfo{
		Engine:   "cedar",
		KeyCount: s.keys.Len(),
	}, nil
}
