package cstore

import (
	"testing"

	"github.com/ahaustein/cedar/lib/store"
	storetesting "github.com/ahaustein/cedar/lib/store/testing"
)

func Test(t *testing.T) {
	storetesting.RunStoreTests(t, "CedarStore", func() store.IStore {
		return NewCedarStore()
	})
}

// TestValueIsolation checks that stored values are isolated from caller
// mutations in both directions.
func TestValueIsolation(t *testing.T) {
	s := NewCedarStore()

	buf := []byte("original")
	if err := s.Set("k", buf); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	buf[0] = 'X'

	got, _, _ := s.Get("k")
	if string(got) != "original" {
		t.Errorf("stored value mutated through caller buffer: %s", got)
	}

	got[0] = 'Y'
	again, _, _ := s.Get("k")
	if string(again) != "original" {
		t.Errorf("stored value mutated through returned buffer: %s", again)
	}
}
