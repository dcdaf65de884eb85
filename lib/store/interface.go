package store

import "fmt"

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// ScoredMember is one (member, score) pair returned by range queries.
type ScoredMember struct {
	Member string  `json:"member"`
	Score  float64 `json:"score"`
}

// StoreInfo holds metadata about a store instance.
// It is not guaranteed that all fields are up-to-date at read time.
type StoreInfo struct {
	Engine   string `json:"engine"`
	KeyCount int    `json:"key_count"`
}

// IStore is the generic interface for interacting with a key-value store
// with sorted-set support. Absent keys and members are reported through
// boolean return values, never through errors; errors indicate misuse
// (such as a type mismatch between a plain key and a sorted-set key) or
// an internal failure.
type IStore interface {
	// Set inserts or updates a plain key-value pair.
	Set(key string, value []byte) (err error)
	// Get returns the value for a key. The boolean return value indicates
	// whether a value for the key was found.
	Get(key string) (value []byte, loaded bool, err error)
	// Delete removes a key of any type. It reports whether a key was
	// actually removed.
	Delete(key string) (removed bool, err error)
	// Has reports whether a key of any type exists.
	Has(key string) (loaded bool, err error)
	// Keys returns all resident keys of any type. The returned slice is a
	// snapshot taken atomically at call time.
	Keys() (keys []string, err error)

	// ZAdd inserts member into the sorted set at key with the given
	// score, creating the set if the key is absent, or updates the score
	// of an existing member. It reports true if a new member was created.
	ZAdd(key, member string, score float64) (inserted bool, err error)
	// ZScore returns the score of member in the sorted set at key.
	ZScore(key, member string) (score float64, loaded bool, err error)
	// ZRem removes member from the sorted set at key. It reports whether
	// the member existed. Removing the last member removes the key.
	ZRem(key, member string) (removed bool, err error)
	// ZRank returns the 0-based ascending rank of member in the sorted
	// set at key.
	ZRank(key, member string) (rank int64, loaded bool, err error)
	// ZCard returns the number of members in the sorted set at key.
	// An absent key has cardinality zero.
	ZCard(key string) (count int64, err error)
	// ZQuery returns up to limit members starting at the member offset
	// positions after the least (score, member) pair that is greater than
	// or equal to the query pair. A negative offset walks backwards from
	// that pair. Out-of-range positions yield an empty result.
	ZQuery(key string, score float64, member string, offset, limit int64) (entries []ScoredMember, err error)

	// GetStoreInfo returns metadata about the store.
	GetStoreInfo() (info StoreInfo, err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "InternalError"
	case RetCUnsupportedOperation:
		errorCode = "UnsupportedOperation"
	case RetCInvalidOperation:
		errorCode = "InvalidOperation"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("StoreError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new store Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by the store.
	RetCInvalidOperation                    // 3: Invalid operation (e.g. wrong key type).
)
