package testing

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/ahaustein/cedar/lib/store"
)

// StoreFactory is a function that creates a fresh instance of an IStore
// implementation.
type StoreFactory func() store.IStore

// RunStoreTests runs a comprehensive test suite for an IStore
// implementation.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, factory())
		})

		t.Run("Keys", func(t *testing.T) {
			testKeys(t, factory())
		})

		t.Run("TypeMismatch", func(t *testing.T) {
			testTypeMismatch(t, factory())
		})

		t.Run("ZAdd&ZScore", func(t *testing.T) {
			testZAddZScore(t, factory())
		})

		t.Run("ZRem", func(t *testing.T) {
			testZRem(t, factory())
		})

		t.Run("ZRank", func(t *testing.T) {
			testZRank(t, factory())
		})

		t.Run("ZQuery", func(t *testing.T) {
			testZQuery(t, factory())
		})

		t.Run("ManyKeys", func(t *testing.T) {
			testManyKeys(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, s store.IStore) {
	testKey := "test-key"
	testValue1 := []byte("test-value1")
	testValue2 := []byte("test-value2")

	if _, loaded, err := s.Get(testKey); err != nil || loaded {
		t.Fatalf("Get on empty store: loaded=%v err=%v", loaded, err)
	}

	if err := s.Set(testKey, testValue1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	result, loaded, err := s.Get(testKey)
	if err != nil || !loaded {
		t.Fatalf("Expected key %s to exist after Set (err=%v)", testKey, err)
	}
	if !bytes.Equal(result, testValue1) {
		t.Errorf("Expected value %s, got %s", testValue1, result)
	}

	// overwrite
	if err := s.Set(testKey, testValue2); err != nil {
		t.Fatalf("Set (overwrite) failed: %v", err)
	}
	result, _, _ = s.Get(testKey)
	if !bytes.Equal(result, testValue2) {
		t.Errorf("Expected value %s after overwrite, got %s", testValue2, result)
	}
}

func testDelete(t *testing.T, s store.IStore) {
	key := "delete-me"
	_ = s.Set(key, []byte("v"))

	removed, err := s.Delete(key)
	if err != nil || !removed {
		t.Fatalf("Delete: removed=%v err=%v", removed, err)
	}
	if _, loaded, _ := s.Get(key); loaded {
		t.Errorf("key %s still readable after Delete", key)
	}
	if removed, _ := s.Delete(key); removed {
		t.Errorf("second Delete of %s reported removed", key)
	}
}

func testHas(t *testing.T, s store.IStore) {
	if loaded, _ := s.Has("nope"); loaded {
		t.Errorf("Has(nope) = true on empty store")
	}
	_ = s.Set("yes", []byte("v"))
	if loaded, _ := s.Has("yes"); !loaded {
		t.Errorf("Has(yes) = false after Set")
	}

	// Has also covers sorted-set keys
	_, _ = s.ZAdd("zkey", "m", 1.0)
	if loaded, _ := s.Has("zkey"); !loaded {
		t.Errorf("Has(zkey) = false after ZAdd")
	}
}

func testKeys(t *testing.T, s store.IStore) {
	want := []string{"a", "b", "c", "z"}
	_ = s.Set("a", []byte("1"))
	_ = s.Set("b", []byte("2"))
	_ = s.Set("c", []byte("3"))
	_, _ = s.ZAdd("z", "m", 1.0)

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
	}
}

func testTypeMismatch(t *testing.T, s store.IStore) {
	_ = s.Set("str", []byte("v"))
	_, _ = s.ZAdd("zs", "m", 1.0)

	assertInvalidOp := func(err error, op string) {
		t.Helper()
		if err == nil {
			t.Fatalf("%s on wrong key type returned nil error", op)
		}
		var storeErr *store.Error
		if errors.As(err, &storeErr) && storeErr.Code != store.RetCInvalidOperation {
			t.Errorf("%s returned code %d, want RetCInvalidOperation", op, storeErr.Code)
		}
	}

	_, err := s.ZAdd("str", "m", 1.0)
	assertInvalidOp(err, "ZAdd")

	_, _, err = s.Get("zs")
	assertInvalidOp(err, "Get")

	err = s.Set("zs", []byte("v"))
	assertInvalidOp(err, "Set")
}

func testZAddZScore(t *testing.T, s store.IStore) {
	inserted, err := s.ZAdd("board", "foo", 5.0)
	if err != nil || !inserted {
		t.Fatalf("first ZAdd: inserted=%v err=%v", inserted, err)
	}

	inserted, err = s.ZAdd("board", "foo", 7.0)
	if err != nil {
		t.Fatalf("second ZAdd failed: %v", err)
	}
	if inserted {
		t.Errorf("second ZAdd reported inserted, want updated")
	}

	score, loaded, err := s.ZScore("board", "foo")
	if err != nil || !loaded {
		t.Fatalf("ZScore: loaded=%v err=%v", loaded, err)
	}
	if score != 7.0 {
		t.Errorf("score = %v, want 7.0", score)
	}

	if count, _ := s.ZCard("board"); count != 1 {
		t.Errorf("ZCard = %d, want exactly one entry for foo", count)
	}

	if _, loaded, _ := s.ZScore("board", "missing"); loaded {
		t.Errorf("ZScore(missing) reported loaded")
	}
	if _, loaded, _ := s.ZScore("noboard", "foo"); loaded {
		t.Errorf("ZScore on absent key reported loaded")
	}
}

func testZRem(t *testing.T, s store.IStore) {
	_, _ = s.ZAdd("board", "a", 1.0)
	_, _ = s.ZAdd("board", "b", 2.0)

	removed, err := s.ZRem("board", "a")
	if err != nil || !removed {
		t.Fatalf("ZRem: removed=%v err=%v", removed, err)
	}
	if _, loaded, _ := s.ZScore("board", "a"); loaded {
		t.Errorf("removed member still has a score")
	}
	if removed, _ := s.ZRem("board", "a"); removed {
		t.Errorf("second ZRem reported removed")
	}

	// removing the last member removes the key
	_, _ = s.ZRem("board", "b")
	if loaded, _ := s.Has("board"); loaded {
		t.Errorf("empty sorted set still occupies its key")
	}
}

func testZRank(t *testing.T, s store.IStore) {
	members := []string{"alice", "bob", "carol", "dave"}
	for i, m := range members {
		_, _ = s.ZAdd("board", m, float64(i))
	}

	for i, m := range members {
		rank, loaded, err := s.ZRank("board", m)
		if err != nil || !loaded {
			t.Fatalf("ZRank(%s): loaded=%v err=%v", m, loaded, err)
		}
		if rank != int64(i) {
			t.Errorf("ZRank(%s) = %d, want %d", m, rank, i)
		}
	}

	// ranks renumber contiguously after a removal
	_, _ = s.ZRem("board", "bob")
	want := map[string]int64{"alice": 0, "carol": 1, "dave": 2}
	for m, wantRank := range want {
		rank, _, _ := s.ZRank("board", m)
		if rank != wantRank {
			t.Errorf("after ZRem: ZRank(%s) = %d, want %d", m, rank, wantRank)
		}
	}
}

func testZQuery(t *testing.T, s store.IStore) {
	for i := 0; i < 10; i++ {
		_, _ = s.ZAdd("board", fmt.Sprintf("m%d", i), float64(i))
	}

	// plain range scan from a score
	entries, err := s.ZQuery("board", 3.0, "", 0, 4)
	if err != nil {
		t.Fatalf("ZQuery failed: %v", err)
	}
	wantMembers := []string{"m3", "m4", "m5", "m6"}
	if len(entries) != len(wantMembers) {
		t.Fatalf("ZQuery returned %d entries, want %d", len(entries), len(wantMembers))
	}
	for i, e := range entries {
		if e.Member != wantMembers[i] || e.Score != float64(i+3) {
			t.Errorf("entry %d = %+v, want {%s %d}", i, e, wantMembers[i], i+3)
		}
	}

	// positive offset
	entries, _ = s.ZQuery("board", 0.0, "", 8, 10)
	if len(entries) != 2 || entries[0].Member != "m8" {
		t.Errorf("offset query = %+v, want [m8 m9]", entries)
	}

	// negative offset walks backwards from the seek position
	entries, _ = s.ZQuery("board", 5.0, "", -2, 3)
	if len(entries) != 3 || entries[0].Member != "m3" {
		t.Errorf("negative offset query = %+v, want [m3 m4 m5]", entries)
	}

	// out of range is empty, not an error
	entries, err = s.ZQuery("board", 0.0, "", 100, 10)
	if err != nil || len(entries) != 0 {
		t.Errorf("out-of-range query = %+v, err=%v; want empty", entries, err)
	}
	entries, err = s.ZQuery("noboard", 0.0, "", 0, 10)
	if err != nil || len(entries) != 0 {
		t.Errorf("query on absent key = %+v, err=%v; want empty", entries, err)
	}
}

func testManyKeys(t *testing.T, s store.IStore) {
	const n = 5000

	for i := 0; i < n; i++ {
		if err := s.Set(fmt.Sprintf("key-%d", i), []byte(fmt.Sprintf("value-%d", i))); err != nil {
			t.Fatalf("Set #%d failed: %v", i, err)
		}
	}
	for i := 0; i < n; i++ {
		value, loaded, err := s.Get(fmt.Sprintf("key-%d", i))
		if err != nil || !loaded {
			t.Fatalf("Get #%d: loaded=%v err=%v", i, loaded, err)
		}
		if !bytes.Equal(value, []byte(fmt.Sprintf("value-%d", i))) {
			t.Fatalf("Get #%d returned wrong value", i)
		}
	}

	keys, _ := s.Keys()
	if len(keys) != n {
		t.Fatalf("Keys() returned %d keys, want %d", len(keys), n)
	}
}
