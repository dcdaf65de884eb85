// Package testing provides a shared, factory-driven test suite for
// store.IStore implementations. Both the in-process engine and the RPC
// client implement the same interface, so they are exercised by the same
// suite:
//
//	func Test(t *testing.T) {
//		storetesting.RunStoreTests(t, "CedarStore", func() store.IStore {
//			return cstore.NewCedarStore()
//		})
//	}
package testing
